package setup

import (
	"github.com/LavaJover/panterex-service/internal/domain"
	providers "github.com/LavaJover/panterex-service/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/panterex-service/internal/usecase"
)

type UseCases struct {
	CommissionUsecase  domain.CommissionUsecase
	RateHistoryUsecase domain.RateHistoryUsecase
	RatesUsecase       domain.RatesUsecase
	SettingUsecase     domain.SettingUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	cfg := deps.Config

	commissionUsecase := usecase.NewDefaultCommissionUsecase(
		deps.Repositories.CommissionRepo,
		cfg.Commissions.DefaultPercent,
		deps.Metrics,
		deps.Logger,
	)
	historyUsecase := usecase.NewDefaultRateHistoryUsecase(deps.Repositories.RateHistoryRepo, deps.Metrics, deps.Logger)
	settingUsecase := usecase.NewDefaultSettingUsecase(deps.Repositories.SettingRepo, deps.Logger)

	thbUSDT, usdtRUB := initRateSources(deps)
	ratesUsecase := usecase.NewDefaultRatesUsecase(
		thbUSDT,
		usdtRUB,
		historyUsecase,
		deps.RatePublisher,
		deps.Metrics,
		deps.Logger,
	)

	return &UseCases{
		CommissionUsecase:  commissionUsecase,
		RateHistoryUsecase: historyUsecase,
		RatesUsecase:       ratesUsecase,
		SettingUsecase:     settingUsecase,
	}
}

func initRateSources(deps *Dependencies) (thbUSDT, usdtRUB domain.RateSource) {
	cfg := deps.Config.Rates

	var cache providers.RateCache = providers.NewMemoryRateCache()
	if deps.Redis != nil {
		cache = providers.NewRedisRateCache(deps.Redis, deps.Config.Cache.Redis.Namespace)
	}

	sourceCfg := providers.CachedSourceConfig{
		TTL:            cfg.CacheTTL,
		StaleTolerance: cfg.StaleTolerance,
		FetchTimeout:   cfg.FetchTimeout,
		RPS:            cfg.FetchRPS,
		Burst:          cfg.FetchBurst,
	}

	bitkub := providers.NewBitkubProvider(cfg.Bitkub.BaseURL, cfg.Bitkub.Symbol)
	bybit := providers.NewBybitP2PProvider(providers.BybitP2PConfig{
		BaseURL:       cfg.Bybit.BaseURL,
		TokenID:       cfg.Bybit.TokenID,
		CurrencyID:    cfg.Bybit.CurrencyID,
		Side:          cfg.Bybit.Side,
		PageSize:      cfg.Bybit.PageSize,
		PositionStart: cfg.Bybit.PositionStart,
		PositionEnd:   cfg.Bybit.PositionEnd,
	})

	thbUSDT = providers.NewCachedRateSource(bitkub, cache, sourceCfg, deps.Metrics, deps.Logger)
	usdtRUB = providers.NewCachedRateSource(bybit, cache, sourceCfg, deps.Metrics, deps.Logger)
	return thbUSDT, usdtRUB
}
