package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DefaultRatesUsecase struct {
	thbUSDT   domain.RateSource
	usdtRUB   domain.RateSource
	history   domain.RateHistoryUsecase
	publisher domain.RateEventPublisher
	metrics   *metrics.RatesMetrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewDefaultRatesUsecase(
	thbUSDT domain.RateSource,
	usdtRUB domain.RateSource,
	history domain.RateHistoryUsecase,
	publisher domain.RateEventPublisher,
	metrics *metrics.RatesMetrics,
	logger *zap.Logger,
) *DefaultRatesUsecase {
	return &DefaultRatesUsecase{
		thbUSDT:   thbUSDT,
		usdtRUB:   usdtRUB,
		history:   history,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.Named("rates"),
		now:       time.Now,
	}
}

// GetRates returns the current snapshot. Both legs are requested concurrently
// from their sources (cache or live); every leg that came from a live fetch is
// appended to the history together with the derived THB/RUB cross rate.
func (uc *DefaultRatesUsecase) GetRates(ctx context.Context) (*domain.RateSnapshot, error) {
	var (
		thb, rub       domain.FetchedRate
		thbErr, rubErr error
		g              errgroup.Group
	)
	g.Go(func() error {
		thb, thbErr = uc.thbUSDT.GetRate(ctx)
		return thbErr
	})
	g.Go(func() error {
		rub, rubErr = uc.usdtRUB.GetRate(ctx)
		return rubErr
	})
	_ = g.Wait()

	var fresh []*domain.RateObservation
	if thbErr == nil && isLive(thb) {
		fresh = append(fresh, observationOf(thb))
	}
	if rubErr == nil && isLive(rub) {
		fresh = append(fresh, observationOf(rub))
	}

	if err := errors.Join(thbErr, rubErr); err != nil {
		// Успешно полученные ноги всё равно пишем в историю
		uc.recordBestEffort(ctx, fresh)
		return nil, fmt.Errorf("get rates: %w", err)
	}

	thbRUB, err := CrossRate(thb.Rate, rub.Rate)
	if err != nil {
		uc.recordBestEffort(ctx, fresh)
		return nil, fmt.Errorf("cross rate %s: %w", domain.PairTHBRUB, err)
	}

	if len(fresh) > 0 {
		fresh = append(fresh, &domain.RateObservation{
			FromCurrency: domain.PairTHBRUB.From,
			ToCurrency:   domain.PairTHBRUB.To,
			Rate:         thbRUB,
			Source:       domain.SourceCrossCalculated,
		})
		if err := uc.record(ctx, fresh); err != nil {
			return nil, err
		}
	}

	snapshot := &domain.RateSnapshot{
		THBUSDT:     thb.Rate,
		USDTRUB:     rub.Rate,
		RUBUSDT:     1 / rub.Rate,
		THBRUB:      thbRUB,
		LastUpdated: uc.oldestFetch(thb, rub),
		Sources: domain.RateSnapshotSources{
			THBUSDT: thb.Source,
			USDTRUB: rub.Source,
			THBRUB:  domain.SourceCrossCalculated,
		},
		Stale: domain.RateSnapshotStale{
			THBUSDT: thb.Stale,
			USDTRUB: rub.Stale,
		},
	}

	uc.metrics.RecordRate(domain.PairTHBUSDT.String(), snapshot.THBUSDT)
	uc.metrics.RecordRate(domain.PairUSDTRUB.String(), snapshot.USDTRUB)
	uc.metrics.RecordRate(domain.PairTHBRUB.String(), snapshot.THBRUB)

	return snapshot, nil
}

// oldestFetch is the fetch time of the least recent leg. A leg without one
// counts as fetched now.
func (uc *DefaultRatesUsecase) oldestFetch(legs ...domain.FetchedRate) time.Time {
	oldest := uc.now()
	for _, leg := range legs {
		if !leg.FetchedAt.IsZero() && leg.FetchedAt.Before(oldest) {
			oldest = leg.FetchedAt
		}
	}
	return oldest.UTC()
}

// RefreshRates drops every source cache so the following read goes upstream.
func (uc *DefaultRatesUsecase) RefreshRates(ctx context.Context) (*domain.RateSnapshot, error) {
	for _, source := range []domain.RateSource{uc.thbUSDT, uc.usdtRUB} {
		if err := source.ClearCache(ctx); err != nil {
			return nil, fmt.Errorf("clear %s cache: %w", source.Name(), err)
		}
	}
	uc.logger.Info("rate caches cleared")

	return uc.GetRates(ctx)
}

func (uc *DefaultRatesUsecase) record(ctx context.Context, observations []*domain.RateObservation) error {
	if err := uc.history.AppendBatch(ctx, observations); err != nil {
		return err
	}

	if err := uc.publisher.PublishRateObserved(ctx, observations...); err != nil {
		uc.logger.Warn("failed to publish rate events", zap.Int("observations", len(observations)), zap.Error(err))
	}
	return nil
}

func (uc *DefaultRatesUsecase) recordBestEffort(ctx context.Context, observations []*domain.RateObservation) {
	if len(observations) == 0 {
		return
	}
	if err := uc.record(ctx, observations); err != nil {
		uc.logger.Error("failed to record partial rates", zap.Error(err))
	}
}

func isLive(rate domain.FetchedRate) bool {
	return !rate.Cached && !rate.Stale
}

func observationOf(rate domain.FetchedRate) *domain.RateObservation {
	return &domain.RateObservation{
		FromCurrency: rate.Pair.From,
		ToCurrency:   rate.Pair.To,
		Rate:         rate.Rate,
		Source:       rate.Source,
	}
}
