package mappers

import (
	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/models"
)

func ToGORMCommission(tier *domain.CommissionTier) *models.CommissionModel {
	return &models.CommissionModel{
		ID:                tier.ID,
		Currency:          tier.Currency.String(),
		MinAmount:         tier.MinAmount,
		MaxAmount:         tier.MaxAmount,
		CommissionPercent: tier.CommissionPercent,
		CreatedAt:         tier.CreatedAt,
		UpdatedAt:         tier.UpdatedAt,
	}
}

func ToDomainCommission(model *models.CommissionModel) *domain.CommissionTier {
	return &domain.CommissionTier{
		ID:                model.ID,
		Currency:          domain.Currency(model.Currency),
		MinAmount:         model.MinAmount,
		MaxAmount:         model.MaxAmount,
		CommissionPercent: model.CommissionPercent,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
