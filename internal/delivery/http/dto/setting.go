package dto

import (
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
)

type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateSettingRequest struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type UpdateSettingRequest struct {
	Value       *string `json:"value"`
	Description *string `json:"description"`
}

func ToSettingResponse(setting *domain.Setting) SettingResponse {
	return SettingResponse{
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
		CreatedAt:   setting.CreatedAt,
		UpdatedAt:   setting.UpdatedAt,
	}
}

func ToSettingResponses(settings []*domain.Setting) []SettingResponse {
	out := make([]SettingResponse, len(settings))
	for i, setting := range settings {
		out[i] = ToSettingResponse(setting)
	}
	return out
}
