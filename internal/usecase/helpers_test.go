package usecase

import (
	"testing"

	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestMetrics(t *testing.T) *metrics.RatesMetrics {
	t.Helper()
	return metrics.NewRatesMetrics(prometheus.NewRegistry())
}
