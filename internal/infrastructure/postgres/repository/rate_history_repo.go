package repository

import (
	"context"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRateHistoryRepository struct {
	DB *gorm.DB
}

func NewDefaultRateHistoryRepository(db *gorm.DB) *DefaultRateHistoryRepository {
	return &DefaultRateHistoryRepository{
		DB: db,
	}
}

// Append inserts the batch in one statement.
func (r *DefaultRateHistoryRepository) Append(ctx context.Context, observations ...*domain.RateObservation) error {
	if len(observations) == 0 {
		return nil
	}

	historyModels := make([]*models.RateHistoryModel, len(observations))
	for i, observation := range observations {
		historyModels[i] = mappers.ToGORMRateHistory(observation)
	}

	if err := r.DB.WithContext(ctx).Create(&historyModels).Error; err != nil {
		return err
	}

	for i, historyModel := range historyModels {
		observations[i].ID = historyModel.ID
	}
	return nil
}

func (r *DefaultRateHistoryRepository) Query(ctx context.Context, filter *domain.RateHistoryFilter) ([]*domain.RateObservation, int64, error) {
	var historyModels []*models.RateHistoryModel
	var total int64

	query := applyHistoryFilters(r.DB.WithContext(ctx).Model(&models.RateHistoryModel{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC, id DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&historyModels).Error; err != nil {
		return nil, 0, err
	}

	observations := make([]*domain.RateObservation, len(historyModels))
	for i, historyModel := range historyModels {
		observations[i] = mappers.ToDomainRateHistory(historyModel)
	}

	return observations, total, nil
}

func (r *DefaultRateHistoryRepository) Stats(ctx context.Context, filter *domain.RateHistoryFilter) ([]*domain.RateHistoryStats, error) {
	query := applyHistoryFilters(r.DB.WithContext(ctx).Model(&models.RateHistoryModel{}), filter)

	var rows []models.RateHistoryStatsRow
	if err := query.Select(`
		from_currency,
		to_currency,
		COUNT(*) as count,
		MIN(rate) as min_rate,
		MAX(rate) as max_rate,
		AVG(rate) as avg_rate,
		MIN(created_at) as first_at,
		MAX(created_at) as last_at`).
		Group("from_currency, to_currency").
		Order("from_currency, to_currency").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make([]*domain.RateHistoryStats, len(rows))
	for i := range rows {
		stats[i] = mappers.ToDomainRateHistoryStats(&rows[i])
	}
	return stats, nil
}

func applyHistoryFilters(query *gorm.DB, filter *domain.RateHistoryFilter) *gorm.DB {
	if filter != nil {
		if filter.Pair != nil {
			query = query.Where("from_currency = ? AND to_currency = ?", filter.Pair.From.String(), filter.Pair.To.String())
		}
		if filter.From != nil {
			query = query.Where("created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("created_at <= ?", *filter.To)
		}
	}
	return query
}
