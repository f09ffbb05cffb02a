package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/LavaJover/panterex-service/internal/delivery/http/dto"
	"github.com/LavaJover/panterex-service/internal/delivery/http/response"
	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// KeyParam is the single path parameter under /commissions: a currency code
// for reads and a tier id for mutations.
const KeyParam = "key"

type CommissionHandler struct {
	commissionUsecase domain.CommissionUsecase
	logger            *zap.Logger
}

func NewCommissionHandler(commissionUsecase domain.CommissionUsecase, logger *zap.Logger) *CommissionHandler {
	return &CommissionHandler{
		commissionUsecase: commissionUsecase,
		logger:            logger.Named("commission_handler"),
	}
}

// ListTiers GET /api/commissions
func (h *CommissionHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.commissionUsecase.ListTiers(r.Context())
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCommissionResponses(tiers))
}

// ListTiersByCurrency GET /api/commissions/{currency}
func (h *CommissionHandler) ListTiersByCurrency(w http.ResponseWriter, r *http.Request) {
	currency, err := domain.ParseCurrency(chi.URLParam(r, KeyParam))
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	tiers, err := h.commissionUsecase.ListTiersByCurrency(r.Context(), currency)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCommissionResponses(tiers))
}

// Resolve GET /api/commissions/{currency}/resolve?amount=
func (h *CommissionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	currency, err := domain.ParseCurrency(chi.URLParam(r, KeyParam))
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	raw := r.URL.Query().Get("amount")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.FromError(w, h.logger, fmt.Errorf("%w: invalid amount %q", domain.ErrValidation, raw))
		return
	}

	quote, err := h.commissionUsecase.Quote(r.Context(), currency, amount)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCommissionQuoteResponse(quote))
}

// CreateTier POST /api/commissions
func (h *CommissionHandler) CreateTier(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCommissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	if req.Currency == "" || req.CommissionPercent == nil {
		response.Error(w, http.StatusBadRequest, "currency and commission_percent are required")
		return
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	tier, err := h.commissionUsecase.CreateTier(r.Context(), req.ToDomain(currency))
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSONWithMessage(w, http.StatusCreated, "Commission created", dto.ToCommissionResponse(tier))
}

// UpdateTier PUT /api/commissions/{id}
func (h *CommissionHandler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, KeyParam))
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	var req dto.UpdateCommissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	tier, err := h.commissionUsecase.UpdateTier(r.Context(), id, req.ToDomain())
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSONWithMessage(w, http.StatusOK, "Commission updated", dto.ToCommissionResponse(tier))
}

// DeleteTier DELETE /api/commissions/{id}
func (h *CommissionHandler) DeleteTier(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, KeyParam))
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	if err := h.commissionUsecase.DeleteTier(r.Context(), id); err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSONWithMessage(w, http.StatusOK, "Commission deleted", nil)
}
