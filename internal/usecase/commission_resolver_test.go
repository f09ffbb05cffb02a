package usecase

import (
	"testing"

	"github.com/LavaJover/panterex-service/internal/domain"
)

func bound(v float64) *float64 { return &v }

func rubTiers() []*domain.CommissionTier {
	return []*domain.CommissionTier{
		{ID: 1, Currency: domain.CurrencyRUB, MinAmount: 0, MaxAmount: bound(5000), CommissionPercent: 9.0},
		{ID: 2, Currency: domain.CurrencyRUB, MinAmount: 5000, MaxAmount: bound(10000), CommissionPercent: 7.0},
		{ID: 3, Currency: domain.CurrencyRUB, MinAmount: 10000, MaxAmount: bound(30000), CommissionPercent: 5.0},
		{ID: 4, Currency: domain.CurrencyRUB, MinAmount: 30000, MaxAmount: bound(100000), CommissionPercent: 3.5},
		{ID: 5, Currency: domain.CurrencyRUB, MinAmount: 100000, MaxAmount: nil, CommissionPercent: 2.5},
	}
}

func TestResolvePercent(t *testing.T) {
	tests := []struct {
		name        string
		tiers       []*domain.CommissionTier
		amount      float64
		wantPercent float64
		wantOutcome domain.ResolutionOutcome
	}{
		{"shared boundary goes to lower tier", rubTiers(), 5000, 9.0, domain.OutcomeTier},
		{"inside second tier", rubTiers(), 7500, 7.0, domain.OutcomeTier},
		{"unbounded top tier", rubTiers(), 150000, 2.5, domain.OutcomeTier},
		{"zero amount", rubTiers(), 0, 9.0, domain.OutcomeTier},
		{"upper boundary of middle tier", rubTiers(), 30000, 5.0, domain.OutcomeTier},
		{"no tiers uses default", nil, 5000, 1.0, domain.OutcomeDefault},
		{
			name: "gap falls back to highest tier",
			tiers: []*domain.CommissionTier{
				{MinAmount: 0, MaxAmount: bound(100), CommissionPercent: 5},
				{MinAmount: 200, MaxAmount: bound(300), CommissionPercent: 3},
			},
			amount:      150,
			wantPercent: 3,
			wantOutcome: domain.OutcomeFallback,
		},
		{
			name: "amount above every bounded tier",
			tiers: []*domain.CommissionTier{
				{MinAmount: 0, MaxAmount: bound(100), CommissionPercent: 5},
			},
			amount:      1000,
			wantPercent: 5,
			wantOutcome: domain.OutcomeFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			percent, outcome := ResolvePercent(tt.tiers, tt.amount, 1.0)
			if percent != tt.wantPercent {
				t.Errorf("percent = %v, want %v", percent, tt.wantPercent)
			}
			if outcome != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", outcome, tt.wantOutcome)
			}
		})
	}
}

func TestResolvePercentIgnoresInputOrder(t *testing.T) {
	tiers := rubTiers()
	reversed := make([]*domain.CommissionTier, len(tiers))
	for i, tier := range tiers {
		reversed[len(tiers)-1-i] = tier
	}

	for _, amount := range []float64{0, 4999.99, 5000, 5000.01, 10000, 99999, 100000, 1e9} {
		want, _ := ResolvePercent(tiers, amount, 1.0)
		got, _ := ResolvePercent(reversed, amount, 1.0)
		if got != want {
			t.Errorf("amount %v: reversed input gave %v, sorted gave %v", amount, got, want)
		}
	}

	if reversed[0].ID != 5 {
		t.Fatal("ResolvePercent must not reorder the caller's slice")
	}
}
