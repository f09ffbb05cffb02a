package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/panterex-service/internal/domain"
	"go.uber.org/zap"
)

type DefaultSettingUsecase struct {
	settingRepo domain.SettingRepository
	logger      *zap.Logger
}

func NewDefaultSettingUsecase(settingRepo domain.SettingRepository, logger *zap.Logger) *DefaultSettingUsecase {
	return &DefaultSettingUsecase{
		settingRepo: settingRepo,
		logger:      logger.Named("config"),
	}
}

func (uc *DefaultSettingUsecase) ListSettings(ctx context.Context) ([]*domain.Setting, error) {
	settings, err := uc.settingRepo.ListSettings(ctx)
	if err != nil {
		return nil, persistenceErr("list settings", err)
	}
	return settings, nil
}

func (uc *DefaultSettingUsecase) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: key is required", domain.ErrValidation)
	}
	setting, err := uc.settingRepo.GetSetting(ctx, key)
	if err != nil {
		return nil, persistenceErr("get setting", err)
	}
	return setting, nil
}

func (uc *DefaultSettingUsecase) CreateSetting(ctx context.Context, setting *domain.Setting) (*domain.Setting, error) {
	setting.Key = strings.TrimSpace(setting.Key)
	if setting.Key == "" {
		return nil, fmt.Errorf("%w: key is required", domain.ErrValidation)
	}
	if err := uc.settingRepo.CreateSetting(ctx, setting); err != nil {
		return nil, persistenceErr("create setting", err)
	}

	uc.logger.Info("setting created", zap.String("key", setting.Key))
	return setting, nil
}

func (uc *DefaultSettingUsecase) UpdateSetting(ctx context.Context, key string, update *domain.SettingUpdate) (*domain.Setting, error) {
	setting, err := uc.GetSetting(ctx, key)
	if err != nil {
		return nil, err
	}

	if update.Value != nil {
		setting.Value = *update.Value
	}
	if update.Description != nil {
		setting.Description = *update.Description
	}

	if err := uc.settingRepo.UpdateSetting(ctx, setting); err != nil {
		return nil, persistenceErr("update setting", err)
	}

	uc.logger.Info("setting updated", zap.String("key", setting.Key))
	return setting, nil
}

func (uc *DefaultSettingUsecase) DeleteSetting(ctx context.Context, key string) error {
	if err := uc.settingRepo.DeleteSetting(ctx, key); err != nil {
		return persistenceErr("delete setting", err)
	}
	uc.logger.Info("setting deleted", zap.String("key", key))
	return nil
}
