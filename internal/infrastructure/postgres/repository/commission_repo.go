package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCommissionRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionRepository(db *gorm.DB) *DefaultCommissionRepository {
	return &DefaultCommissionRepository{
		DB: db,
	}
}

func (r *DefaultCommissionRepository) ListTiers(ctx context.Context) ([]*domain.CommissionTier, error) {
	var commissionModels []*models.CommissionModel
	if err := r.DB.WithContext(ctx).Order("currency ASC, min_amount ASC, id ASC").Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	return toDomainCommissions(commissionModels), nil
}

func (r *DefaultCommissionRepository) ListTiersByCurrency(ctx context.Context, currency domain.Currency) ([]*domain.CommissionTier, error) {
	var commissionModels []*models.CommissionModel
	if err := r.DB.WithContext(ctx).
		Where("currency = ?", currency.String()).
		Order("min_amount ASC, id ASC").
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	return toDomainCommissions(commissionModels), nil
}

func (r *DefaultCommissionRepository) GetTierByID(ctx context.Context, id uint) (*domain.CommissionTier, error) {
	var commissionModel models.CommissionModel
	if err := r.DB.WithContext(ctx).First(&commissionModel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: commission tier %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return mappers.ToDomainCommission(&commissionModel), nil
}

// CreateTier inserts the tier while the currency's tier set is locked, so
// check sees every sibling the insert can conflict with.
func (r *DefaultCommissionRepository) CreateTier(ctx context.Context, tier *domain.CommissionTier, check domain.TierSetCheck) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		siblings, err := lockTierSet(tx, tier.Currency)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(siblings); err != nil {
				return err
			}
		}

		commissionModel := mappers.ToGORMCommission(tier)
		if err := tx.Create(commissionModel).Error; err != nil {
			return err
		}

		*tier = *mappers.ToDomainCommission(commissionModel)
		return nil
	})
}

func (r *DefaultCommissionRepository) UpdateTier(ctx context.Context, tier *domain.CommissionTier, check domain.TierSetCheck) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		siblings, err := lockTierSet(tx, tier.Currency)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(siblings); err != nil {
				return err
			}
		}

		var maxAmount interface{}
		if tier.MaxAmount != nil {
			maxAmount = *tier.MaxAmount
		}

		result := tx.Model(&models.CommissionModel{}).Where("id = ?", tier.ID).Updates(map[string]interface{}{
			"min_amount":         tier.MinAmount,
			"max_amount":         maxAmount,
			"commission_percent": tier.CommissionPercent,
			"updated_at":         time.Now().UTC(),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: commission tier %d", domain.ErrNotFound, tier.ID)
		}

		var commissionModel models.CommissionModel
		if err := tx.First(&commissionModel, tier.ID).Error; err != nil {
			return err
		}
		*tier = *mappers.ToDomainCommission(&commissionModel)
		return nil
	})
}

func (r *DefaultCommissionRepository) DeleteTier(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.CommissionModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: commission tier %d", domain.ErrNotFound, id)
	}
	return nil
}

// lockTierSet serializes mutations of one currency. The advisory lock covers
// the empty set case, where FOR UPDATE has no rows to hold.
func lockTierSet(tx *gorm.DB, currency domain.Currency) ([]*domain.CommissionTier, error) {
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "commissions:"+currency.String()).Error; err != nil {
		return nil, err
	}

	var commissionModels []*models.CommissionModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("currency = ?", currency.String()).
		Order("min_amount ASC, id ASC").
		Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	return toDomainCommissions(commissionModels), nil
}

func toDomainCommissions(commissionModels []*models.CommissionModel) []*domain.CommissionTier {
	tiers := make([]*domain.CommissionTier, len(commissionModels))
	for i, commissionModel := range commissionModels {
		tiers[i] = mappers.ToDomainCommission(commissionModel)
	}
	return tiers
}
