package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type failingCommissionRepo struct {
	domain.CommissionRepository
	err error
}

func (r *failingCommissionRepo) ListTiersByCurrency(context.Context, domain.Currency) ([]*domain.CommissionTier, error) {
	return nil, r.err
}

func newCommissionUsecase(t *testing.T, repo domain.CommissionRepository) *DefaultCommissionUsecase {
	t.Helper()
	return NewDefaultCommissionUsecase(repo, 1.0, newTestMetrics(t), zap.NewNop())
}

func TestCommissionUsecase_ResolveWithSeededTiers(t *testing.T) {
	uc := newCommissionUsecase(t, memory.NewCommissionRepository(rubTiers()...))
	ctx := context.Background()

	tests := []struct {
		currency domain.Currency
		amount   float64
		want     float64
	}{
		{domain.CurrencyRUB, 5000, 9.0},
		{domain.CurrencyRUB, 150000, 2.5},
		{domain.CurrencyRUB, 7500, 7.0},
		{domain.CurrencyTHB, 5000, 1.0},
	}
	for _, tt := range tests {
		got, err := uc.ResolvePercent(ctx, tt.currency, tt.amount)
		if err != nil {
			t.Fatalf("ResolvePercent(%s, %v): %v", tt.currency, tt.amount, err)
		}
		if got != tt.want {
			t.Errorf("ResolvePercent(%s, %v) = %v, want %v", tt.currency, tt.amount, got, tt.want)
		}
	}
}

func TestCommissionUsecase_Quote(t *testing.T) {
	uc := newCommissionUsecase(t, memory.NewCommissionRepository(rubTiers()...))

	quote, err := uc.Quote(context.Background(), domain.CurrencyRUB, 7500)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.CommissionPercent != 7.0 || quote.Outcome != domain.OutcomeTier {
		t.Fatalf("quote = %+v", quote)
	}
	if !quote.CommissionAmount.Equal(decimal.NewFromInt(525)) {
		t.Errorf("commission amount = %s, want 525", quote.CommissionAmount)
	}
	if !quote.NetAmount.Equal(decimal.NewFromInt(6975)) {
		t.Errorf("net amount = %s, want 6975", quote.NetAmount)
	}
}

func TestCommissionUsecase_QuoteFallsBackToDefaultOnStorageFailure(t *testing.T) {
	uc := newCommissionUsecase(t, &failingCommissionRepo{err: errors.New("connection refused")})

	quote, err := uc.Quote(context.Background(), domain.CurrencyRUB, 1000)
	if err != nil {
		t.Fatalf("Quote must stay available, got %v", err)
	}
	if quote.CommissionPercent != 1.0 || quote.Outcome != domain.OutcomeDegraded {
		t.Fatalf("quote = %+v, want default percent with degraded outcome", quote)
	}

	if _, err := uc.ResolvePercent(context.Background(), domain.CurrencyRUB, 1000); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("ResolvePercent err = %v, want ErrPersistence", err)
	}
}

func TestCommissionUsecase_QuoteValidation(t *testing.T) {
	uc := newCommissionUsecase(t, memory.NewCommissionRepository())

	if _, err := uc.Quote(context.Background(), domain.Currency("EUR"), 100); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unsupported currency: err = %v", err)
	}
	if _, err := uc.Quote(context.Background(), domain.CurrencyRUB, -1); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative amount: err = %v", err)
	}
}

func TestCommissionUsecase_CreateTier(t *testing.T) {
	tests := []struct {
		name    string
		tier    *domain.CommissionTier
		wantErr error
	}{
		{
			name: "adjacent tier sharing a boundary",
			tier: &domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 5000, MaxAmount: bound(8000), CommissionPercent: 6},
		},
		{
			name:    "overlapping tier",
			tier:    &domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 4000, MaxAmount: bound(6000), CommissionPercent: 6},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "second unbounded tier",
			tier:    &domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 200000, CommissionPercent: 1},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "zero-width tier at the unbounded tier's min",
			tier:    &domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 100000, MaxAmount: bound(100000), CommissionPercent: 50},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "bounded tier above the unbounded tier",
			tier:    &domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 150000, MaxAmount: bound(150000), CommissionPercent: 50},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "max below min",
			tier:    &domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 100, MaxAmount: bound(50), CommissionPercent: 1},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative percent",
			tier:    &domain.CommissionTier{Currency: domain.CurrencyTHB, MinAmount: 0, CommissionPercent: -1},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unsupported currency",
			tier:    &domain.CommissionTier{Currency: "EUR", MinAmount: 0, CommissionPercent: 1},
			wantErr: domain.ErrValidation,
		},
		{
			name: "first tier of another currency",
			tier: &domain.CommissionTier{Currency: domain.CurrencyUSDT, MinAmount: 0, CommissionPercent: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewCommissionRepository(
				&domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 0, MaxAmount: bound(5000), CommissionPercent: 9},
				&domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 100000, CommissionPercent: 2.5},
			)
			uc := newCommissionUsecase(t, repo)

			created, err := uc.CreateTier(context.Background(), tt.tier)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateTier: %v", err)
			}
			if created.ID == 0 {
				t.Fatal("created tier has no id")
			}
		})
	}
}

func TestCommissionUsecase_CreateUnboundedTier(t *testing.T) {
	tests := []struct {
		name    string
		min     float64
		wantErr error
	}{
		{name: "starts at a zero-width tier", min: 5000, wantErr: domain.ErrValidation},
		{name: "starts below a bounded tier", min: 1000, wantErr: domain.ErrValidation},
		{name: "starts above every bounded tier", min: 6000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewCommissionRepository(
				&domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 0, MaxAmount: bound(5000), CommissionPercent: 9},
				&domain.CommissionTier{Currency: domain.CurrencyRUB, MinAmount: 5000, MaxAmount: bound(5000), CommissionPercent: 50},
			)
			uc := newCommissionUsecase(t, repo)

			_, err := uc.CreateTier(context.Background(), &domain.CommissionTier{
				Currency: domain.CurrencyRUB, MinAmount: tt.min, CommissionPercent: 2.5,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateTier: %v", err)
			}
		})
	}
}

func TestCommissionUsecase_UpdateTier(t *testing.T) {
	repo := memory.NewCommissionRepository(rubTiers()...)
	uc := newCommissionUsecase(t, repo)
	ctx := context.Background()

	percent := 8.5
	updated, err := uc.UpdateTier(ctx, 1, &domain.CommissionTierUpdate{CommissionPercent: &percent})
	if err != nil {
		t.Fatalf("UpdateTier: %v", err)
	}
	if updated.CommissionPercent != 8.5 || updated.MaxAmount == nil || *updated.MaxAmount != 5000 {
		t.Fatalf("updated = %+v", updated)
	}

	got, err := uc.ResolvePercent(ctx, domain.CurrencyRUB, 100)
	if err != nil || got != 8.5 {
		t.Fatalf("ResolvePercent after update = %v, %v", got, err)
	}

	// Lifting the bound of tier 1 would overlap tier 2.
	_, err = uc.UpdateTier(ctx, 1, &domain.CommissionTierUpdate{MaxAmountSet: true, MaxAmount: bound(9000)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("overlapping update err = %v", err)
	}

	_, err = uc.UpdateTier(ctx, 42, &domain.CommissionTierUpdate{CommissionPercent: &percent})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing tier err = %v", err)
	}
}

func TestCommissionUsecase_DeleteTier(t *testing.T) {
	uc := newCommissionUsecase(t, memory.NewCommissionRepository(rubTiers()...))
	ctx := context.Background()

	if err := uc.DeleteTier(ctx, 1); err != nil {
		t.Fatalf("DeleteTier: %v", err)
	}
	if _, err := uc.GetTier(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetTier after delete err = %v", err)
	}
	if err := uc.DeleteTier(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}

	tiers, err := uc.ListTiersByCurrency(ctx, domain.CurrencyRUB)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiers) != 4 {
		t.Fatalf("got %d tiers, want 4", len(tiers))
	}
}
