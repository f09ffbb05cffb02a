package mappers

import (
	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/models"
)

func ToGORMRateHistory(observation *domain.RateObservation) *models.RateHistoryModel {
	return &models.RateHistoryModel{
		ID:           observation.ID,
		FromCurrency: observation.FromCurrency.String(),
		ToCurrency:   observation.ToCurrency.String(),
		Rate:         observation.Rate,
		Source:       observation.Source,
		CreatedAt:    observation.CreatedAt,
	}
}

func ToDomainRateHistory(model *models.RateHistoryModel) *domain.RateObservation {
	return &domain.RateObservation{
		ID:           model.ID,
		FromCurrency: domain.Currency(model.FromCurrency),
		ToCurrency:   domain.Currency(model.ToCurrency),
		Rate:         model.Rate,
		Source:       model.Source,
		CreatedAt:    model.CreatedAt,
	}
}

func ToDomainRateHistoryStats(row *models.RateHistoryStatsRow) *domain.RateHistoryStats {
	return &domain.RateHistoryStats{
		FromCurrency: domain.Currency(row.FromCurrency),
		ToCurrency:   domain.Currency(row.ToCurrency),
		Count:        row.Count,
		MinRate:      row.MinRate,
		MaxRate:      row.MaxRate,
		AvgRate:      row.AvgRate,
		FirstAt:      row.FirstAt,
		LastAt:       row.LastAt,
	}
}
