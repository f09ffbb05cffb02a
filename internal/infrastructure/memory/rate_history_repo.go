package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/LavaJover/panterex-service/internal/domain"
)

type RateHistoryRepository struct {
	mu           sync.RWMutex
	observations []domain.RateObservation
	nextID       uint
}

func NewRateHistoryRepository() *RateHistoryRepository {
	return &RateHistoryRepository{nextID: 1}
}

func (r *RateHistoryRepository) Append(_ context.Context, observations ...*domain.RateObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, observation := range observations {
		observation.ID = r.nextID
		r.nextID++
		r.observations = append(r.observations, *observation)
	}
	return nil
}

func (r *RateHistoryRepository) Query(_ context.Context, filter *domain.RateHistoryFilter) ([]*domain.RateObservation, int64, error) {
	matched := r.match(filter)

	// created_at DESC, id DESC
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	return matched[start:end], total, nil
}

func (r *RateHistoryRepository) Stats(_ context.Context, filter *domain.RateHistoryFilter) ([]*domain.RateHistoryStats, error) {
	byPair := make(map[domain.CurrencyPair]*domain.RateHistoryStats)
	for _, observation := range r.match(filter) {
		pair := observation.Pair()
		s, ok := byPair[pair]
		if !ok {
			s = &domain.RateHistoryStats{
				FromCurrency: pair.From,
				ToCurrency:   pair.To,
				MinRate:      observation.Rate,
				MaxRate:      observation.Rate,
				FirstAt:      observation.CreatedAt,
				LastAt:       observation.CreatedAt,
			}
			byPair[pair] = s
		}
		s.Count++
		// AvgRate accumulates the sum until the end
		s.AvgRate += observation.Rate
		if observation.Rate < s.MinRate {
			s.MinRate = observation.Rate
		}
		if observation.Rate > s.MaxRate {
			s.MaxRate = observation.Rate
		}
		if observation.CreatedAt.Before(s.FirstAt) {
			s.FirstAt = observation.CreatedAt
		}
		if observation.CreatedAt.After(s.LastAt) {
			s.LastAt = observation.CreatedAt
		}
	}

	stats := make([]*domain.RateHistoryStats, 0, len(byPair))
	for _, s := range byPair {
		s.AvgRate /= float64(s.Count)
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].FromCurrency != stats[j].FromCurrency {
			return stats[i].FromCurrency < stats[j].FromCurrency
		}
		return stats[i].ToCurrency < stats[j].ToCurrency
	})
	return stats, nil
}

func (r *RateHistoryRepository) match(filter *domain.RateHistoryFilter) []*domain.RateObservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.RateObservation
	for i := range r.observations {
		observation := r.observations[i]
		if filter != nil {
			if filter.Pair != nil && observation.Pair() != *filter.Pair {
				continue
			}
			if filter.From != nil && observation.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && observation.CreatedAt.After(*filter.To) {
				continue
			}
		}
		matched = append(matched, &observation)
	}
	return matched
}
