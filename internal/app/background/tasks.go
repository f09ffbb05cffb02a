package background

import (
	"context"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"go.uber.org/zap"
)

type BackgroundTasks struct {
	RatesUsecase    domain.RatesUsecase
	RefreshInterval time.Duration
	logger          *zap.Logger
}

func NewBackgroundTasks(ratesUC domain.RatesUsecase, refreshInterval time.Duration, logger *zap.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		RatesUsecase:    ratesUC,
		RefreshInterval: refreshInterval,
		logger:          logger.Named("background"),
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.RefreshInterval > 0 {
		go bt.startRatesRefresh(ctx)
	}
}

// startRatesRefresh reads the rates on a ticker so the history keeps growing
// without admin traffic. Cached legs are not re-recorded, so an interval
// shorter than the cache TTL only costs cache hits.
func (bt *BackgroundTasks) startRatesRefresh(ctx context.Context) {
	ticker := time.NewTicker(bt.RefreshInterval)
	defer ticker.Stop()

	bt.refreshRates(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.refreshRates(ctx)
		}
	}
}

func (bt *BackgroundTasks) refreshRates(ctx context.Context) {
	snapshot, err := bt.RatesUsecase.GetRates(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		bt.logger.Error("rates update failed", zap.Error(err))
		return
	}
	bt.logger.Info("rates updated",
		zap.Float64("thb_usdt", snapshot.THBUSDT),
		zap.Float64("usdt_rub", snapshot.USDTRUB),
		zap.Float64("thb_rub", snapshot.THBRUB),
		zap.Bool("stale", snapshot.Stale.THBUSDT || snapshot.Stale.USDTRUB),
	)
}
