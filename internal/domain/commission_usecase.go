package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ResolutionOutcome tells which branch of the resolver produced the percent.
type ResolutionOutcome string

const (
	OutcomeTier     ResolutionOutcome = "tier"
	OutcomeDefault  ResolutionOutcome = "default"
	OutcomeFallback ResolutionOutcome = "fallback"
	OutcomeDegraded ResolutionOutcome = "degraded"
)

type CommissionQuote struct {
	Currency          Currency
	Amount            decimal.Decimal
	CommissionPercent float64
	CommissionAmount  decimal.Decimal
	NetAmount         decimal.Decimal
	Outcome           ResolutionOutcome
}

type CommissionUsecase interface {
	ListTiers(ctx context.Context) ([]*CommissionTier, error)
	ListTiersByCurrency(ctx context.Context, currency Currency) ([]*CommissionTier, error)
	GetTier(ctx context.Context, id uint) (*CommissionTier, error)
	CreateTier(ctx context.Context, tier *CommissionTier) (*CommissionTier, error)
	UpdateTier(ctx context.Context, id uint, update *CommissionTierUpdate) (*CommissionTier, error)
	DeleteTier(ctx context.Context, id uint) error

	ResolvePercent(ctx context.Context, currency Currency, amount float64) (float64, error)
	Quote(ctx context.Context, currency Currency, amount float64) (*CommissionQuote, error)
}
