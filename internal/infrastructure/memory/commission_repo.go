package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
)

// CommissionRepository keeps tiers in a map guarded by one mutex, which also
// makes every tier-set check atomic with its write.
type CommissionRepository struct {
	mu     sync.RWMutex
	tiers  map[uint]*domain.CommissionTier
	nextID uint
}

func NewCommissionRepository(seed ...*domain.CommissionTier) *CommissionRepository {
	r := &CommissionRepository{
		tiers:  make(map[uint]*domain.CommissionTier),
		nextID: 1,
	}
	now := time.Now().UTC()
	for _, tier := range seed {
		t := *tier
		t.ID = r.nextID
		t.CreatedAt, t.UpdatedAt = now, now
		r.tiers[t.ID] = &t
		r.nextID++
	}
	return r
}

func (r *CommissionRepository) ListTiers(_ context.Context) ([]*domain.CommissionTier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tiers := make([]*domain.CommissionTier, 0, len(r.tiers))
	for _, tier := range r.tiers {
		tiers = append(tiers, copyTier(tier))
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].Currency != tiers[j].Currency {
			return tiers[i].Currency < tiers[j].Currency
		}
		return lessTier(tiers[i], tiers[j])
	})
	return tiers, nil
}

func (r *CommissionRepository) ListTiersByCurrency(_ context.Context, currency domain.Currency) ([]*domain.CommissionTier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tierSet(currency), nil
}

func (r *CommissionRepository) GetTierByID(_ context.Context, id uint) (*domain.CommissionTier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tier, ok := r.tiers[id]
	if !ok {
		return nil, fmt.Errorf("%w: commission tier %d", domain.ErrNotFound, id)
	}
	return copyTier(tier), nil
}

func (r *CommissionRepository) CreateTier(_ context.Context, tier *domain.CommissionTier, check domain.TierSetCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if check != nil {
		if err := check(r.tierSet(tier.Currency)); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	tier.ID = r.nextID
	tier.CreatedAt, tier.UpdatedAt = now, now
	r.nextID++
	r.tiers[tier.ID] = copyTier(tier)
	return nil
}

func (r *CommissionRepository) UpdateTier(_ context.Context, tier *domain.CommissionTier, check domain.TierSetCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tiers[tier.ID]
	if !ok {
		return fmt.Errorf("%w: commission tier %d", domain.ErrNotFound, tier.ID)
	}
	if check != nil {
		if err := check(r.tierSet(tier.Currency)); err != nil {
			return err
		}
	}

	tier.CreatedAt = existing.CreatedAt
	tier.UpdatedAt = time.Now().UTC()
	r.tiers[tier.ID] = copyTier(tier)
	return nil
}

func (r *CommissionRepository) DeleteTier(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tiers[id]; !ok {
		return fmt.Errorf("%w: commission tier %d", domain.ErrNotFound, id)
	}
	delete(r.tiers, id)
	return nil
}

// tierSet expects r.mu to be held.
func (r *CommissionRepository) tierSet(currency domain.Currency) []*domain.CommissionTier {
	var tiers []*domain.CommissionTier
	for _, tier := range r.tiers {
		if tier.Currency == currency {
			tiers = append(tiers, copyTier(tier))
		}
	}
	sort.Slice(tiers, func(i, j int) bool { return lessTier(tiers[i], tiers[j]) })
	return tiers
}

func lessTier(a, b *domain.CommissionTier) bool {
	if a.MinAmount != b.MinAmount {
		return a.MinAmount < b.MinAmount
	}
	return a.ID < b.ID
}

func copyTier(tier *domain.CommissionTier) *domain.CommissionTier {
	t := *tier
	if tier.MaxAmount != nil {
		upper := *tier.MaxAmount
		t.MaxAmount = &upper
	}
	return &t
}
