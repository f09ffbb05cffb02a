package domain

import "context"

type SettingUsecase interface {
	ListSettings(ctx context.Context) ([]*Setting, error)
	GetSetting(ctx context.Context, key string) (*Setting, error)
	CreateSetting(ctx context.Context, setting *Setting) (*Setting, error)
	UpdateSetting(ctx context.Context, key string, update *SettingUpdate) (*Setting, error)
	DeleteSetting(ctx context.Context, key string) error
}
