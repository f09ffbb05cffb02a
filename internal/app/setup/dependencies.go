package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/panterex-service/internal/config"
	"github.com/LavaJover/panterex-service/internal/delivery/http/handlers"
	"github.com/LavaJover/panterex-service/internal/domain"
	publisher "github.com/LavaJover/panterex-service/internal/infrastructure/kafka"
	"github.com/LavaJover/panterex-service/internal/infrastructure/memory"
	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"github.com/LavaJover/panterex-service/internal/infrastructure/migrate"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres"
	"github.com/LavaJover/panterex-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config        *config.PanterexConfig
	Logger        *zap.Logger
	DB            *gorm.DB
	Redis         redis.UniversalClient
	RatePublisher domain.RateEventPublisher
	Registry      *prometheus.Registry
	Metrics       *metrics.RatesMetrics
	Repositories  *Repositories

	closers []func() error
}

type Repositories struct {
	CommissionRepo  domain.CommissionRepository
	RateHistoryRepo domain.RateHistoryRepository
	SettingRepo     domain.SettingRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.PanterexConfig, logger *zap.Logger) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  metrics.NewRatesMetrics(registry),
	}

	repos, err := deps.initRepositories()
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("repositories: %w", err)
	}
	deps.Repositories = repos

	if err := deps.initRedis(ctx); err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	deps.RatePublisher = deps.initRatePublisher()

	return deps, nil
}

func (d *Dependencies) initRepositories() (*Repositories, error) {
	switch d.Config.Storage.Driver {
	case "memory":
		d.Logger.Warn("using in-memory storage, data is lost on restart")
		return &Repositories{
			CommissionRepo:  memory.NewCommissionRepository(memory.DefaultTiers()...),
			RateHistoryRepo: memory.NewRateHistoryRepository(),
			SettingRepo:     memory.NewSettingRepository(memory.DefaultSettings()...),
		}, nil
	default:
		db, err := postgres.InitDB(d.Config.Storage)
		if err != nil {
			return nil, err
		}
		d.DB = db
		d.closers = append(d.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		if err := migrate.RunMigrations(db, d.Config.Storage.MigrationsPath, d.Logger); err != nil {
			return nil, err
		}

		return &Repositories{
			CommissionRepo:  repository.NewDefaultCommissionRepository(db),
			RateHistoryRepo: repository.NewDefaultRateHistoryRepository(db),
			SettingRepo:     repository.NewDefaultSettingRepository(db),
		}, nil
	}
}

func (d *Dependencies) initRedis(ctx context.Context) error {
	if d.Config.Cache.Backend != "redis" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     d.Config.Cache.Redis.Addr,
		Password: d.Config.Cache.Redis.Password,
		DB:       d.Config.Cache.Redis.DB,
	})
	d.closers = append(d.closers, client.Close)

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping %s: %w", d.Config.Cache.Redis.Addr, err)
	}
	d.Redis = client
	return nil
}

func (d *Dependencies) initRatePublisher() domain.RateEventPublisher {
	if !d.Config.KafkaService.Enabled {
		return publisher.NoopPublisher{}
	}

	pub := publisher.NewDefaultKafkaPublisher(d.Config.KafkaService.Brokers, d.Config.KafkaService.Topic, d.Logger)
	d.closers = append(d.closers, pub.Close)
	d.Logger.Info("kafka rate events enabled",
		zap.Strings("brokers", d.Config.KafkaService.Brokers),
		zap.String("topic", d.Config.KafkaService.Topic),
	)
	return pub
}

// HealthChecks lists the external dependencies that are actually in use.
func (d *Dependencies) HealthChecks() map[string]handlers.HealthCheck {
	checks := make(map[string]handlers.HealthCheck)
	if d.DB != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases resources in reverse order of acquisition.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
