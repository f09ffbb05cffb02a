package usecase

import (
	"sort"

	"github.com/LavaJover/panterex-service/internal/domain"
)

// ResolvePercent picks the commission percent for amount from one currency's
// tiers. Tiers are scanned by min_amount ascending and the first tier with
// min <= amount <= max wins, so an amount equal to a shared boundary belongs
// to the lower tier. Without tiers defaultPercent is returned; when tiers
// exist but none matches, the tier with the highest min_amount is used.
func ResolvePercent(tiers []*domain.CommissionTier, amount, defaultPercent float64) (float64, domain.ResolutionOutcome) {
	if len(tiers) == 0 {
		return defaultPercent, domain.OutcomeDefault
	}

	sorted := make([]*domain.CommissionTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinAmount < sorted[j].MinAmount
	})

	for _, tier := range sorted {
		if tier.Contains(amount) {
			return tier.CommissionPercent, domain.OutcomeTier
		}
	}

	return sorted[len(sorted)-1].CommissionPercent, domain.OutcomeFallback
}
