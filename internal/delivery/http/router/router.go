package router

import (
	"net/http"
	"time"

	"github.com/LavaJover/panterex-service/internal/delivery/http/handlers"
	"github.com/LavaJover/panterex-service/internal/delivery/http/middleware"
	"github.com/LavaJover/panterex-service/internal/delivery/http/response"
	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Rates       *handlers.RatesHandler
	Commissions *handlers.CommissionHandler
	Settings    *handlers.SettingHandler
	Health      *handlers.HealthHandler
}

type Options struct {
	AllowedOrigins []string
	AdminRole      string
	RequestTimeout time.Duration
	MetricsPath    string
	Gatherer       prometheus.Gatherer
}

func SetupRoutes(
	h Handlers,
	auth *middleware.AuthMiddleware,
	m *metrics.RatesMetrics,
	logger *zap.Logger,
	opts Options,
) (chi.Router, error) {
	requestID, err := middleware.RequestID()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// ---- Global Middleware ----
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(logger, m))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, opts.MetricsPath, promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	admin := func(pr chi.Router) {
		pr.Use(auth.Authenticate)
		pr.Use(auth.RequireRole(opts.AdminRole))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Health.Health)

		// ---------------- Rates ----------------
		api.Route("/rates", func(rt chi.Router) {
			rt.Get("/", h.Rates.GetRates)

			rt.Group(func(pr chi.Router) {
				pr.Use(auth.Authenticate)
				pr.Post("/refresh", h.Rates.RefreshRates)
				pr.Get("/history", h.Rates.GetHistory)
				pr.Get("/history/stats", h.Rates.GetHistoryStats)
			})
		})

		// ---------------- Commissions ----------------
		api.Route("/commissions", func(cm chi.Router) {
			cm.Get("/", h.Commissions.ListTiers)
			cm.Get("/{key}", h.Commissions.ListTiersByCurrency)
			cm.Get("/{key}/resolve", h.Commissions.Resolve)

			cm.Group(func(pr chi.Router) {
				admin(pr)
				pr.Post("/", h.Commissions.CreateTier)
				pr.Put("/{key}", h.Commissions.UpdateTier)
				pr.Delete("/{key}", h.Commissions.DeleteTier)
			})
		})

		// ---------------- Config ----------------
		api.Route("/config", func(cf chi.Router) {
			admin(cf)
			cf.Get("/", h.Settings.ListSettings)
			cf.Post("/", h.Settings.CreateSetting)
			cf.Get("/{key}", h.Settings.GetSetting)
			cf.Put("/{key}", h.Settings.UpdateSetting)
			cf.Delete("/{key}", h.Settings.DeleteSetting)
		})
	})

	return r, nil
}
