// internal/infrastructure/exchange_providers/cached_source.go
package infrastructure

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

type CachedSourceConfig struct {
	TTL            time.Duration
	StaleTolerance time.Duration
	FetchTimeout   time.Duration
	RPS            float64
	Burst          int
}

// CachedRateSource serves a fetcher's rate from cache while it is younger than
// TTL and goes upstream otherwise. When the upstream fails an entry younger
// than TTL+StaleTolerance is served with Stale set. Concurrent misses share
// one upstream fetch and only the caller that ran it gets a live result.
type CachedRateSource struct {
	fetcher domain.RateFetcher
	cache   RateCache
	cfg     CachedSourceConfig
	limiter *rate.Limiter
	group   singleflight.Group
	metrics *metrics.RatesMetrics
	logger  *zap.Logger
	now     func() time.Time
}

type refreshResult struct {
	entry CachedEntry
	live  bool
}

func NewCachedRateSource(
	fetcher domain.RateFetcher,
	cache RateCache,
	cfg CachedSourceConfig,
	metrics *metrics.RatesMetrics,
	logger *zap.Logger,
) *CachedRateSource {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &CachedRateSource{
		fetcher: fetcher,
		cache:   cache,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
		metrics: metrics,
		logger:  logger.Named("rate_source").With(zap.String("source", fetcher.Name())),
		now:     time.Now,
	}
}

func (s *CachedRateSource) Name() string {
	return s.fetcher.Name()
}

func (s *CachedRateSource) GetRate(ctx context.Context) (domain.FetchedRate, error) {
	key := s.cacheKey()
	now := s.now()

	entry, cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("rate cache read failed", zap.Error(err))
		cached = false
	}

	if cached && now.Sub(entry.FetchedAt) < s.cfg.TTL {
		s.metrics.RecordCacheHit(s.Name())
		return s.result(entry, true, false), nil
	}

	var leader bool
	v, fetchErr, _ := s.group.Do(key, func() (interface{}, error) {
		leader = true
		return s.refresh(ctx, key)
	})
	if fetchErr == nil {
		res := v.(refreshResult)
		live := leader && res.live
		if !live {
			s.metrics.RecordCacheHit(s.Name())
		}
		return s.result(res.entry, !live, false), nil
	}

	if cached && s.cfg.StaleTolerance > 0 && now.Sub(entry.FetchedAt) < s.cfg.TTL+s.cfg.StaleTolerance {
		s.metrics.RecordStaleServed(s.Name())
		s.logger.Warn("upstream failed, serving stale rate",
			zap.Float64("rate", entry.Rate),
			zap.Time("fetched_at", entry.FetchedAt),
			zap.Error(fetchErr),
		)
		return s.result(entry, true, true), nil
	}

	s.logger.Error("failed to fetch rate", zap.Error(fetchErr))
	return domain.FetchedRate{}, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, s.Name(), fetchErr)
}

// refresh runs once per key at a time. A caller that queued behind a finished
// fetch finds the fresh entry and does not go upstream again.
func (s *CachedRateSource) refresh(ctx context.Context, key string) (refreshResult, error) {
	now := s.now()
	if entry, ok, err := s.cache.Get(ctx, key); err == nil && ok && now.Sub(entry.FetchedAt) < s.cfg.TTL {
		return refreshResult{entry: entry}, nil
	}

	value, err := s.fetch(ctx)
	if err != nil {
		return refreshResult{}, err
	}

	fresh := CachedEntry{Rate: value, FetchedAt: now}
	if err := s.cache.Set(ctx, key, fresh, s.cfg.TTL+s.cfg.StaleTolerance); err != nil {
		s.logger.Warn("rate cache write failed", zap.Error(err))
	}
	return refreshResult{entry: fresh, live: true}, nil
}

func (s *CachedRateSource) ClearCache(ctx context.Context) error {
	return s.cache.Delete(ctx, s.cacheKey())
}

func (s *CachedRateSource) fetch(ctx context.Context) (float64, error) {
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	value, err := s.fetcher.FetchRate(ctx)
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0) || value <= 0) {
		err = fmt.Errorf("upstream returned unusable rate %v", value)
	}
	s.metrics.RecordFetch(s.Name(), time.Since(start).Seconds(), err)

	return value, err
}

func (s *CachedRateSource) result(entry CachedEntry, cached, stale bool) domain.FetchedRate {
	return domain.FetchedRate{
		Pair:      s.fetcher.Pair(),
		Rate:      entry.Rate,
		FetchedAt: entry.FetchedAt,
		Source:    s.Name(),
		Cached:    cached,
		Stale:     stale,
	}
}

func (s *CachedRateSource) cacheKey() string {
	return s.fetcher.Pair().String()
}
