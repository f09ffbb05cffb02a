package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/LavaJover/panterex-service/internal/domain"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, APIResponse{
		Status: "success",
		Data:   data,
	})
}

func JSONWithMessage(w http.ResponseWriter, status int, msg string, data interface{}) {
	write(w, status, APIResponse{
		Status:  "success",
		Message: msg,
		Data:    data,
	})
}

func Paginated(w http.ResponseWriter, data interface{}, pagination Pagination) {
	write(w, http.StatusOK, APIResponse{
		Status:     "success",
		Data:       data,
		Pagination: &pagination,
	})
}

func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, APIResponse{
		Status:  "error",
		Message: msg,
	})
}

// FromError maps domain errors onto HTTP statuses. Server side failures are
// logged and answered with a generic message.
func FromError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}

	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		Error(w, status, err.Error())
	case http.StatusBadGateway:
		Error(w, status, "exchange rate source unavailable")
	default:
		Error(w, status, "internal server error")
	}
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.Is(err, domain.ErrArithmetic):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
