// internal/domain/exchange_provider.go
package domain

import (
	"context"
	"time"
)

// FetchedRate is the answer of a rate source. Cached is true when the value
// came from the source cache instead of a live fetch; Stale is true when the
// live fetch failed and an expired cached value was served instead.
type FetchedRate struct {
	Pair      CurrencyPair
	Rate      float64
	FetchedAt time.Time
	Source    string
	Cached    bool
	Stale     bool
}

// RateSource is the cache-or-fetch contract every upstream provider satisfies.
type RateSource interface {
	GetRate(ctx context.Context) (FetchedRate, error)
	ClearCache(ctx context.Context) error
	Name() string
}

// RateFetcher performs a single live request to an upstream, without caching.
type RateFetcher interface {
	FetchRate(ctx context.Context) (float64, error)
	Pair() CurrencyPair
	Name() string
}
