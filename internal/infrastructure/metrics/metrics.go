package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RatesMetrics содержит метрики курсов, истории и комиссий
type RatesMetrics struct {
	// Запросы к внешним источникам курсов
	RateFetchTotal    *prometheus.CounterVec
	RateFetchDuration *prometheus.HistogramVec
	RateCacheHits     *prometheus.CounterVec
	RateStaleServed   *prometheus.CounterVec

	// Последние значения курсов
	RateValue *prometheus.GaugeVec

	// История курсов
	HistoryAppendsTotal *prometheus.CounterVec
	HistoryErrorsTotal  *prometheus.CounterVec

	// Комиссии
	CommissionResolutionsTotal *prometheus.CounterVec

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewRatesMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewRatesMetrics(reg prometheus.Registerer) *RatesMetrics {
	factory := promauto.With(reg)

	return &RatesMetrics{
		RateFetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_fetch_total",
				Help: "Live fetches from upstream rate sources",
			},
			[]string{"source", "result"},
		),

		RateFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rate_fetch_duration_seconds",
				Help:    "Duration of live upstream rate fetches",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms, 100ms, 200ms...
			},
			[]string{"source"},
		),

		RateCacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_cache_hits_total",
				Help: "Rate requests served from a fresh cache entry",
			},
			[]string{"source"},
		),

		RateStaleServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_stale_served_total",
				Help: "Rate requests served from an expired cache entry after an upstream failure",
			},
			[]string{"source"},
		),

		RateValue: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rate_value",
				Help: "Last known rate per currency pair",
			},
			[]string{"pair"},
		),

		HistoryAppendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_history_appends_total",
				Help: "Observations appended to the rates history",
			},
			[]string{"pair", "source"},
		),

		HistoryErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_history_errors_total",
				Help: "Failed rates history operations",
			},
			[]string{"operation"},
		),

		CommissionResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_resolutions_total",
				Help: "Commission percent resolutions by outcome",
			},
			[]string{"currency", "outcome"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordFetch записывает живой запрос к источнику
func (m *RatesMetrics) RecordFetch(source string, durationSeconds float64, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.RateFetchTotal.WithLabelValues(source, result).Inc()
	m.RateFetchDuration.WithLabelValues(source).Observe(durationSeconds)
}

func (m *RatesMetrics) RecordCacheHit(source string) {
	m.RateCacheHits.WithLabelValues(source).Inc()
}

func (m *RatesMetrics) RecordStaleServed(source string) {
	m.RateStaleServed.WithLabelValues(source).Inc()
}

func (m *RatesMetrics) RecordRate(pair string, rate float64) {
	m.RateValue.WithLabelValues(pair).Set(rate)
}

func (m *RatesMetrics) RecordHistoryAppend(pair, source string) {
	m.HistoryAppendsTotal.WithLabelValues(pair, source).Inc()
}

func (m *RatesMetrics) RecordHistoryError(operation string) {
	m.HistoryErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordCommissionResolution: outcome is tier, default, fallback or error
func (m *RatesMetrics) RecordCommissionResolution(currency, outcome string) {
	m.CommissionResolutionsTotal.WithLabelValues(currency, outcome).Inc()
}

func (m *RatesMetrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}
