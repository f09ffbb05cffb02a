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
)

type DefaultSettingRepository struct {
	DB *gorm.DB
}

func NewDefaultSettingRepository(db *gorm.DB) *DefaultSettingRepository {
	return &DefaultSettingRepository{
		DB: db,
	}
}

func (r *DefaultSettingRepository) ListSettings(ctx context.Context) ([]*domain.Setting, error) {
	var settingModels []*models.SettingModel
	if err := r.DB.WithContext(ctx).Order("key ASC").Find(&settingModels).Error; err != nil {
		return nil, err
	}

	settings := make([]*domain.Setting, len(settingModels))
	for i, settingModel := range settingModels {
		settings[i] = mappers.ToDomainSetting(settingModel)
	}
	return settings, nil
}

func (r *DefaultSettingRepository) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	var settingModel models.SettingModel
	if err := r.DB.WithContext(ctx).Where("key = ?", key).First(&settingModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
		}
		return nil, err
	}
	return mappers.ToDomainSetting(&settingModel), nil
}

func (r *DefaultSettingRepository) CreateSetting(ctx context.Context, setting *domain.Setting) error {
	settingModel := mappers.ToGORMSetting(setting)
	if err := r.DB.WithContext(ctx).Create(settingModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: setting %q already exists", domain.ErrValidation, setting.Key)
		}
		return err
	}

	*setting = *mappers.ToDomainSetting(settingModel)
	return nil
}

func (r *DefaultSettingRepository) UpdateSetting(ctx context.Context, setting *domain.Setting) error {
	setting.UpdatedAt = time.Now().UTC()

	result := r.DB.WithContext(ctx).Model(&models.SettingModel{}).Where("key = ?", setting.Key).Updates(map[string]interface{}{
		"value":       setting.Value,
		"description": setting.Description,
		"updated_at":  setting.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: setting %q", domain.ErrNotFound, setting.Key)
	}
	return nil
}

func (r *DefaultSettingRepository) DeleteSetting(ctx context.Context, key string) error {
	result := r.DB.WithContext(ctx).Where("key = ?", key).Delete(&models.SettingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
	return nil
}
