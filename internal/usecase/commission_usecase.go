package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const quoteScale = 8

type DefaultCommissionUsecase struct {
	commissionRepo domain.CommissionRepository
	defaultPercent float64
	metrics        *metrics.RatesMetrics
	logger         *zap.Logger
}

func NewDefaultCommissionUsecase(
	commissionRepo domain.CommissionRepository,
	defaultPercent float64,
	metrics *metrics.RatesMetrics,
	logger *zap.Logger,
) *DefaultCommissionUsecase {
	return &DefaultCommissionUsecase{
		commissionRepo: commissionRepo,
		defaultPercent: defaultPercent,
		metrics:        metrics,
		logger:         logger.Named("commissions"),
	}
}

func (uc *DefaultCommissionUsecase) ListTiers(ctx context.Context) ([]*domain.CommissionTier, error) {
	tiers, err := uc.commissionRepo.ListTiers(ctx)
	if err != nil {
		return nil, persistenceErr("list tiers", err)
	}
	return tiers, nil
}

func (uc *DefaultCommissionUsecase) ListTiersByCurrency(ctx context.Context, currency domain.Currency) ([]*domain.CommissionTier, error) {
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", domain.ErrValidation, currency)
	}
	tiers, err := uc.commissionRepo.ListTiersByCurrency(ctx, currency)
	if err != nil {
		return nil, persistenceErr("list tiers by currency", err)
	}
	return tiers, nil
}

func (uc *DefaultCommissionUsecase) GetTier(ctx context.Context, id uint) (*domain.CommissionTier, error) {
	tier, err := uc.commissionRepo.GetTierByID(ctx, id)
	if err != nil {
		return nil, persistenceErr("get tier", err)
	}
	return tier, nil
}

func (uc *DefaultCommissionUsecase) CreateTier(ctx context.Context, tier *domain.CommissionTier) (*domain.CommissionTier, error) {
	if err := tier.Validate(); err != nil {
		return nil, err
	}
	if err := uc.commissionRepo.CreateTier(ctx, tier, tierSetCheck(tier)); err != nil {
		return nil, persistenceErr("create tier", err)
	}

	uc.logger.Info("commission tier created",
		zap.Uint("id", tier.ID),
		zap.String("currency", tier.Currency.String()),
		zap.Float64("min_amount", tier.MinAmount),
		zap.Float64("commission_percent", tier.CommissionPercent),
	)
	return tier, nil
}

func (uc *DefaultCommissionUsecase) UpdateTier(ctx context.Context, id uint, update *domain.CommissionTierUpdate) (*domain.CommissionTier, error) {
	tier, err := uc.commissionRepo.GetTierByID(ctx, id)
	if err != nil {
		return nil, persistenceErr("get tier", err)
	}

	update.Apply(tier)
	if err := tier.Validate(); err != nil {
		return nil, err
	}

	if err := uc.commissionRepo.UpdateTier(ctx, tier, tierSetCheck(tier)); err != nil {
		return nil, persistenceErr("update tier", err)
	}

	uc.logger.Info("commission tier updated", zap.Uint("id", tier.ID), zap.String("currency", tier.Currency.String()))
	return tier, nil
}

func (uc *DefaultCommissionUsecase) DeleteTier(ctx context.Context, id uint) error {
	if err := uc.commissionRepo.DeleteTier(ctx, id); err != nil {
		return persistenceErr("delete tier", err)
	}
	uc.logger.Info("commission tier deleted", zap.Uint("id", id))
	return nil
}

// ResolvePercent surfaces storage failures; callers that must stay available
// fall back to the default percent themselves (see Quote).
func (uc *DefaultCommissionUsecase) ResolvePercent(ctx context.Context, currency domain.Currency, amount float64) (float64, error) {
	percent, _, err := uc.resolve(ctx, currency, amount)
	return percent, err
}

func (uc *DefaultCommissionUsecase) Quote(ctx context.Context, currency domain.Currency, amount float64) (*domain.CommissionQuote, error) {
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: unsupported currency %q", domain.ErrValidation, currency)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, fmt.Errorf("%w: amount must be a non-negative number", domain.ErrValidation)
	}

	percent, outcome, err := uc.resolve(ctx, currency, amount)
	if err != nil {
		uc.logger.Warn("commission lookup failed, using default percent",
			zap.String("currency", currency.String()),
			zap.Float64("amount", amount),
			zap.Float64("default_percent", uc.defaultPercent),
			zap.Error(err),
		)
		percent = uc.defaultPercent
		outcome = domain.OutcomeDegraded
	}

	value := decimal.NewFromFloat(amount)
	commission := value.Mul(decimal.NewFromFloat(percent)).Div(decimal.NewFromInt(100)).Round(quoteScale)

	return &domain.CommissionQuote{
		Currency:          currency,
		Amount:            value,
		CommissionPercent: percent,
		CommissionAmount:  commission,
		NetAmount:         value.Sub(commission),
		Outcome:           outcome,
	}, nil
}

func (uc *DefaultCommissionUsecase) resolve(ctx context.Context, currency domain.Currency, amount float64) (float64, domain.ResolutionOutcome, error) {
	tiers, err := uc.commissionRepo.ListTiersByCurrency(ctx, currency)
	if err != nil {
		uc.metrics.RecordCommissionResolution(currency.String(), "error")
		return 0, "", persistenceErr("resolve commission", err)
	}

	percent, outcome := ResolvePercent(tiers, amount, uc.defaultPercent)
	uc.metrics.RecordCommissionResolution(currency.String(), string(outcome))
	return percent, outcome, nil
}

// tierSetCheck rejects a tier that overlaps a sibling beyond a shared boundary
// or that would be a second unbounded tier of the currency. The unbounded tier
// must start above every bounded tier.
func tierSetCheck(candidate *domain.CommissionTier) domain.TierSetCheck {
	return func(siblings []*domain.CommissionTier) error {
		for _, sibling := range siblings {
			if sibling.ID == candidate.ID {
				continue
			}
			if candidate.Unbounded() && sibling.Unbounded() {
				return fmt.Errorf("%w: %s already has an unbounded tier (id %d)", domain.ErrValidation, candidate.Currency, sibling.ID)
			}
			if sibling.Unbounded() && candidate.MinAmount >= sibling.MinAmount {
				return fmt.Errorf("%w: tier must start below the unbounded tier (id %d) of %s", domain.ErrValidation, sibling.ID, candidate.Currency)
			}
			if candidate.Unbounded() && sibling.MinAmount >= candidate.MinAmount {
				return fmt.Errorf("%w: unbounded tier must start above tier id %d of %s", domain.ErrValidation, sibling.ID, candidate.Currency)
			}
			if overlaps(candidate, sibling) {
				return fmt.Errorf("%w: tier overlaps tier id %d of %s", domain.ErrValidation, sibling.ID, candidate.Currency)
			}
		}
		return nil
	}
}

func overlaps(a, b *domain.CommissionTier) bool {
	lo := math.Max(a.MinAmount, b.MinAmount)
	hi := math.Min(upperBound(a), upperBound(b))
	return lo < hi
}

func upperBound(t *domain.CommissionTier) float64 {
	if t.MaxAmount == nil {
		return math.Inf(1)
	}
	return *t.MaxAmount
}

func persistenceErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}
