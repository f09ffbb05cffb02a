package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

type CommissionTier struct {
	ID                uint
	Currency          Currency
	MinAmount         float64
	MaxAmount         *float64 // nil - без верхней границы
	CommissionPercent float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t *CommissionTier) Unbounded() bool {
	return t.MaxAmount == nil
}

// Contains uses inclusive bounds on both sides.
func (t *CommissionTier) Contains(amount float64) bool {
	if amount < t.MinAmount {
		return false
	}
	return t.MaxAmount == nil || amount <= *t.MaxAmount
}

func (t *CommissionTier) Validate() error {
	if !t.Currency.IsValid() {
		return fmt.Errorf("%w: unsupported currency %q", ErrValidation, t.Currency)
	}
	if !finite(t.MinAmount) || t.MinAmount < 0 {
		return fmt.Errorf("%w: min_amount must be a non-negative number", ErrValidation)
	}
	if t.MaxAmount != nil {
		if !finite(*t.MaxAmount) || *t.MaxAmount < 0 {
			return fmt.Errorf("%w: max_amount must be a non-negative number", ErrValidation)
		}
		if *t.MaxAmount < t.MinAmount {
			return fmt.Errorf("%w: max_amount must not be less than min_amount", ErrValidation)
		}
	}
	if !finite(t.CommissionPercent) || t.CommissionPercent < 0 {
		return fmt.Errorf("%w: commission_percent must be a non-negative number", ErrValidation)
	}
	return nil
}

// CommissionTierUpdate carries a partial update. MaxAmountSet distinguishes
// "set max_amount to null" from "leave max_amount as is".
type CommissionTierUpdate struct {
	MinAmount         *float64
	MaxAmount         *float64
	MaxAmountSet      bool
	CommissionPercent *float64
}

func (u *CommissionTierUpdate) Apply(tier *CommissionTier) {
	if u.MinAmount != nil {
		tier.MinAmount = *u.MinAmount
	}
	if u.MaxAmountSet {
		tier.MaxAmount = u.MaxAmount
	}
	if u.CommissionPercent != nil {
		tier.CommissionPercent = *u.CommissionPercent
	}
}

// TierSetCheck inspects the other tiers of the same currency before a write.
type TierSetCheck func(siblings []*CommissionTier) error

type CommissionRepository interface {
	ListTiers(ctx context.Context) ([]*CommissionTier, error)
	// ListTiersByCurrency returns tiers sorted by min_amount ascending.
	ListTiersByCurrency(ctx context.Context, currency Currency) ([]*CommissionTier, error)
	GetTierByID(ctx context.Context, id uint) (*CommissionTier, error)
	// CreateTier and UpdateTier run check against the locked tier set of the
	// currency and write only if it passes.
	CreateTier(ctx context.Context, tier *CommissionTier, check TierSetCheck) error
	UpdateTier(ctx context.Context, tier *CommissionTier, check TierSetCheck) error
	DeleteTier(ctx context.Context, id uint) error
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
