package mappers

import (
	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/models"
)

func ToGORMSetting(setting *domain.Setting) *models.SettingModel {
	return &models.SettingModel{
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		CreatedAt:   setting.CreatedAt,
		UpdatedAt:   setting.UpdatedAt,
	}
}

func ToDomainSetting(model *models.SettingModel) *domain.Setting {
	return &domain.Setting{
		Key:         model.Key,
		Value:       model.Value,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
