package domain

import (
	"context"
	"time"
)

// Setting is an entry of the key/value config table edited from the admin panel.
type Setting struct {
	Key         string
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SettingUpdate struct {
	Value       *string
	Description *string
}

type SettingRepository interface {
	ListSettings(ctx context.Context) ([]*Setting, error)
	GetSetting(ctx context.Context, key string) (*Setting, error)
	CreateSetting(ctx context.Context, setting *Setting) error
	UpdateSetting(ctx context.Context, setting *Setting) error
	DeleteSetting(ctx context.Context, key string) error
}
