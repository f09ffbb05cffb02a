package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

type DefaultRateHistoryUsecase struct {
	historyRepo domain.RateHistoryRepository
	metrics     *metrics.RatesMetrics
	logger      *zap.Logger
	now         func() time.Time
}

func NewDefaultRateHistoryUsecase(
	historyRepo domain.RateHistoryRepository,
	metrics *metrics.RatesMetrics,
	logger *zap.Logger,
) *DefaultRateHistoryUsecase {
	return &DefaultRateHistoryUsecase{
		historyRepo: historyRepo,
		metrics:     metrics,
		logger:      logger.Named("rates_history"),
		now:         time.Now,
	}
}

func (uc *DefaultRateHistoryUsecase) Append(ctx context.Context, observation *domain.RateObservation) error {
	return uc.AppendBatch(ctx, []*domain.RateObservation{observation})
}

// AppendBatch writes all observations in one statement; they share the
// timestamp of the batch unless one was set by the caller.
func (uc *DefaultRateHistoryUsecase) AppendBatch(ctx context.Context, observations []*domain.RateObservation) error {
	if len(observations) == 0 {
		return nil
	}

	stamp := uc.now().UTC()
	for _, observation := range observations {
		if err := observation.Validate(); err != nil {
			return err
		}
		if observation.CreatedAt.IsZero() {
			observation.CreatedAt = stamp
		}
	}

	if err := uc.historyRepo.Append(ctx, observations...); err != nil {
		uc.metrics.RecordHistoryError("append")
		uc.logger.Error("failed to append rates history", zap.Int("observations", len(observations)), zap.Error(err))
		return persistenceErr("append rates history", err)
	}

	for _, observation := range observations {
		uc.metrics.RecordHistoryAppend(observation.Pair().String(), observation.Source)
	}
	return nil
}

func (uc *DefaultRateHistoryUsecase) Query(ctx context.Context, filter domain.RateHistoryFilter) (*domain.RateHistoryPage, error) {
	if err := normalizeHistoryFilter(&filter, true); err != nil {
		return nil, err
	}

	observations, total, err := uc.historyRepo.Query(ctx, &filter)
	if err != nil {
		uc.metrics.RecordHistoryError("query")
		return nil, persistenceErr("query rates history", err)
	}

	return &domain.RateHistoryPage{
		Data:   observations,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (uc *DefaultRateHistoryUsecase) Stats(ctx context.Context, filter domain.RateHistoryFilter) ([]*domain.RateHistoryStats, error) {
	if err := normalizeHistoryFilter(&filter, false); err != nil {
		return nil, err
	}

	stats, err := uc.historyRepo.Stats(ctx, &filter)
	if err != nil {
		uc.metrics.RecordHistoryError("stats")
		return nil, persistenceErr("rates history stats", err)
	}
	return stats, nil
}

func normalizeHistoryFilter(filter *domain.RateHistoryFilter, paginated bool) error {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return fmt.Errorf("%w: from must not be after to", domain.ErrValidation)
	}
	if !paginated {
		filter.Limit, filter.Offset = 0, 0
		return nil
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return fmt.Errorf("%w: limit and offset must not be negative", domain.ErrValidation)
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Limit > MaxHistoryLimit {
		filter.Limit = MaxHistoryLimit
	}
	return nil
}
