package handlers

import (
	"net/http"

	"github.com/LavaJover/panterex-service/internal/delivery/http/dto"
	"github.com/LavaJover/panterex-service/internal/delivery/http/response"
	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SettingHandler struct {
	settingUsecase domain.SettingUsecase
	logger         *zap.Logger
}

func NewSettingHandler(settingUsecase domain.SettingUsecase, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{
		settingUsecase: settingUsecase,
		logger:         logger.Named("config_handler"),
	}
}

// ListSettings GET /api/config
func (h *SettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingUsecase.ListSettings(r.Context())
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToSettingResponses(settings))
}

// GetSetting GET /api/config/{key}
func (h *SettingHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settingUsecase.GetSetting(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToSettingResponse(setting))
}

// CreateSetting POST /api/config
func (h *SettingHandler) CreateSetting(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSettingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	setting, err := h.settingUsecase.CreateSetting(r.Context(), &domain.Setting{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSONWithMessage(w, http.StatusCreated, "Setting created", dto.ToSettingResponse(setting))
}

// UpdateSetting PUT /api/config/{key}
func (h *SettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	setting, err := h.settingUsecase.UpdateSetting(r.Context(), chi.URLParam(r, "key"), &domain.SettingUpdate{
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSONWithMessage(w, http.StatusOK, "Setting updated", dto.ToSettingResponse(setting))
}

// DeleteSetting DELETE /api/config/{key}
func (h *SettingHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.settingUsecase.DeleteSetting(r.Context(), chi.URLParam(r, "key")); err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSONWithMessage(w, http.StatusOK, "Setting deleted", nil)
}
