package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/LavaJover/panterex-service/internal/delivery/http/dto"
	"github.com/LavaJover/panterex-service/internal/delivery/http/response"
	"github.com/LavaJover/panterex-service/internal/domain"
	"go.uber.org/zap"
)

type RatesHandler struct {
	ratesUsecase   domain.RatesUsecase
	historyUsecase domain.RateHistoryUsecase
	logger         *zap.Logger
}

func NewRatesHandler(ratesUsecase domain.RatesUsecase, historyUsecase domain.RateHistoryUsecase, logger *zap.Logger) *RatesHandler {
	return &RatesHandler{
		ratesUsecase:   ratesUsecase,
		historyUsecase: historyUsecase,
		logger:         logger.Named("rates_handler"),
	}
}

// GetRates GET /api/rates
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.ratesUsecase.GetRates(r.Context())
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToRatesResponse(snapshot))
}

// RefreshRates POST /api/rates/refresh
func (h *RatesHandler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.ratesUsecase.RefreshRates(r.Context())
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSONWithMessage(w, http.StatusOK, "Rates refreshed", dto.ToRatesResponse(snapshot))
}

// GetHistory GET /api/rates/history?limit=&offset=&from=&to=&currency_pair=
func (h *RatesHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r, true)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	page, err := h.historyUsecase.Query(r.Context(), filter)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	response.Paginated(w, dto.ToRateObservationResponses(page.Data), response.Pagination{
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// GetHistoryStats GET /api/rates/history/stats?from=&to=&currency_pair=
func (h *RatesHandler) GetHistoryStats(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r, false)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}

	stats, err := h.historyUsecase.Stats(r.Context(), filter)
	if err != nil {
		response.FromError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToRateHistoryStatsResponses(stats))
}

func parseHistoryFilter(r *http.Request, paginated bool) (domain.RateHistoryFilter, error) {
	var filter domain.RateHistoryFilter
	q := r.URL.Query()

	if raw := q.Get("currency_pair"); raw != "" {
		pair, err := domain.ParseCurrencyPair(raw)
		if err != nil {
			return filter, err
		}
		filter.Pair = &pair
	}

	bounds := []struct {
		name string
		dst  **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	}
	for _, b := range bounds {
		raw := q.Get(b.name)
		if raw == "" {
			continue
		}
		t, err := parseTime(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid %s: %q", domain.ErrValidation, b.name, raw)
		}
		*b.dst = &t
	}

	if !paginated {
		return filter, nil
	}

	pages := []struct {
		name string
		dst  *int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	}
	for _, p := range pages {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid %s: %q", domain.ErrValidation, p.name, raw)
		}
		*p.dst = v
	}
	return filter, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation(time.DateOnly, raw, time.UTC)
}
