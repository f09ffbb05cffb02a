package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/LavaJover/panterex-service/internal/delivery/http/response"
	"go.uber.org/zap"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	version string
	checks  map[string]HealthCheck
	logger  *zap.Logger
}

func NewHealthHandler(version string, checks map[string]HealthCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		version: version,
		checks:  checks,
		logger:  logger.Named("health"),
	}
}

type healthResponse struct {
	Service   string            `json:"service"`
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Service:   "panterex",
		Status:    "ok",
		Version:   h.version,
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				h.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
	}

	response.JSON(w, status, resp)
}
