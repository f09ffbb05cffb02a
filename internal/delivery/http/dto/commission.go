package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CommissionResponse struct {
	ID                uint      `json:"id"`
	Currency          string    `json:"currency"`
	MinAmount         float64   `json:"min_amount"`
	MaxAmount         *float64  `json:"max_amount"`
	CommissionPercent float64   `json:"commission_percent"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateCommissionRequest struct {
	Currency          string   `json:"currency"`
	MinAmount         *float64 `json:"min_amount"`
	MaxAmount         *float64 `json:"max_amount"`
	CommissionPercent *float64 `json:"commission_percent"`
}

// UpdateCommissionRequest is partial. max_amount: null makes the tier unbounded,
// an absent max_amount keeps the current bound.
type UpdateCommissionRequest struct {
	MinAmount         *float64      `json:"min_amount"`
	MaxAmount         OptionalFloat `json:"max_amount"`
	CommissionPercent *float64      `json:"commission_percent"`
}

// OptionalFloat tells an explicit null apart from a missing field.
type OptionalFloat struct {
	Set   bool
	Value *float64
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type CommissionQuoteResponse struct {
	Currency          string          `json:"currency"`
	Amount            decimal.Decimal `json:"amount"`
	CommissionPercent float64         `json:"commission_percent"`
	CommissionAmount  decimal.Decimal `json:"commission_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	Outcome           string          `json:"outcome"`
}

func (r *CreateCommissionRequest) ToDomain(currency domain.Currency) *domain.CommissionTier {
	tier := &domain.CommissionTier{
		Currency:  currency,
		MaxAmount: r.MaxAmount,
	}
	if r.MinAmount != nil {
		tier.MinAmount = *r.MinAmount
	}
	if r.CommissionPercent != nil {
		tier.CommissionPercent = *r.CommissionPercent
	}
	return tier
}

func (r *UpdateCommissionRequest) ToDomain() *domain.CommissionTierUpdate {
	return &domain.CommissionTierUpdate{
		MinAmount:         r.MinAmount,
		MaxAmount:         r.MaxAmount.Value,
		MaxAmountSet:      r.MaxAmount.Set,
		CommissionPercent: r.CommissionPercent,
	}
}

func ToCommissionResponse(tier *domain.CommissionTier) CommissionResponse {
	return CommissionResponse{
		ID:                tier.ID,
		Currency:          tier.Currency.String(),
		MinAmount:         tier.MinAmount,
		MaxAmount:         tier.MaxAmount,
		CommissionPercent: tier.CommissionPercent,
		CreatedAt:         tier.CreatedAt,
		UpdatedAt:         tier.UpdatedAt,
	}
}

func ToCommissionResponses(tiers []*domain.CommissionTier) []CommissionResponse {
	out := make([]CommissionResponse, len(tiers))
	for i, tier := range tiers {
		out[i] = ToCommissionResponse(tier)
	}
	return out
}

func ToCommissionQuoteResponse(quote *domain.CommissionQuote) CommissionQuoteResponse {
	return CommissionQuoteResponse{
		Currency:          quote.Currency.String(),
		Amount:            quote.Amount,
		CommissionPercent: quote.CommissionPercent,
		CommissionAmount:  quote.CommissionAmount,
		NetAmount:         quote.NetAmount,
		Outcome:           string(quote.Outcome),
	}
}
