package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LavaJover/panterex-service/internal/app/background"
	"github.com/LavaJover/panterex-service/internal/app/setup"
	"github.com/LavaJover/panterex-service/internal/config"
	"github.com/LavaJover/panterex-service/internal/delivery/http/handlers"
	"github.com/LavaJover/panterex-service/internal/delivery/http/jwtutil"
	"github.com/LavaJover/panterex-service/internal/delivery/http/middleware"
	"github.com/LavaJover/panterex-service/internal/delivery/http/router"
	"github.com/LavaJover/panterex-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to init dependencies", zap.Error(err))
	}
	defer func() {
		if err := deps.Close(); err != nil {
			zapLogger.Error("failed to release dependencies", zap.Error(err))
		}
	}()

	uc := setup.InitializeUseCases(deps)

	verifier := jwtutil.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	r, err := router.SetupRoutes(
		router.Handlers{
			Rates:       handlers.NewRatesHandler(uc.RatesUsecase, uc.RateHistoryUsecase, zapLogger),
			Commissions: handlers.NewCommissionHandler(uc.CommissionUsecase, zapLogger),
			Settings:    handlers.NewSettingHandler(uc.SettingUsecase, zapLogger),
			Health:      handlers.NewHealthHandler(version, deps.HealthChecks(), zapLogger),
		},
		middleware.NewAuthMiddleware(verifier, zapLogger),
		deps.Metrics,
		zapLogger,
		router.Options{
			AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
			AdminRole:      cfg.Auth.AdminRole,
			RequestTimeout: cfg.HTTPServer.WriteTimeout,
			MetricsPath:    cfg.Metrics.Path,
			Gatherer:       deps.Registry,
		},
	)
	if err != nil {
		zapLogger.Fatal("failed to init router", zap.Error(err))
	}

	// Периодическое обновление курсов
	tasks := background.NewBackgroundTasks(uc.RatesUsecase, cfg.Rates.RefreshInterval, zapLogger)
	tasks.StartAll(ctx)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("http server started",
			zap.String("addr", server.Addr),
			zap.String("env", cfg.Env),
			zap.String("version", version),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("cache", cfg.Cache.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		zapLogger.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			zapLogger.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
