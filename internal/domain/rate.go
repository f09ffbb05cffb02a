package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	SourceBitkub          = "Bitkub API"
	SourceBybitP2P        = "Bybit P2P API"
	SourceCrossCalculated = "Cross-calculated"
)

// RateObservation is one immutable row of the rates history.
type RateObservation struct {
	ID           uint
	FromCurrency Currency
	ToCurrency   Currency
	Rate         float64
	Source       string
	CreatedAt    time.Time
}

func (o *RateObservation) Pair() CurrencyPair {
	return CurrencyPair{From: o.FromCurrency, To: o.ToCurrency}
}

func (o *RateObservation) Validate() error {
	if o.FromCurrency == "" || o.ToCurrency == "" {
		return fmt.Errorf("%w: observation currencies are required", ErrValidation)
	}
	if !finite(o.Rate) || o.Rate <= 0 {
		return fmt.Errorf("%w: observation rate must be positive, got %v", ErrValidation, o.Rate)
	}
	return nil
}

type RateHistoryFilter struct {
	Pair   *CurrencyPair
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type RateHistoryPage struct {
	Data   []*RateObservation
	Total  int64
	Limit  int
	Offset int
}

type RateHistoryStats struct {
	FromCurrency Currency
	ToCurrency   Currency
	Count        int64
	MinRate      float64
	MaxRate      float64
	AvgRate      float64
	FirstAt      time.Time
	LastAt       time.Time
}

// RateHistoryRepository is append-only: there is no update or delete.
type RateHistoryRepository interface {
	Append(ctx context.Context, observations ...*RateObservation) error
	// Query orders by created_at DESC, id DESC and ignores Limit/Offset for the total.
	Query(ctx context.Context, filter *RateHistoryFilter) ([]*RateObservation, int64, error)
	Stats(ctx context.Context, filter *RateHistoryFilter) ([]*RateHistoryStats, error)
}

// RateSnapshot is derived on every rates request, never persisted as a whole.
type RateSnapshot struct {
	THBUSDT     float64
	USDTRUB     float64
	RUBUSDT     float64
	THBRUB      float64
	LastUpdated time.Time
	Sources     RateSnapshotSources
	Stale       RateSnapshotStale
}

type RateSnapshotSources struct {
	THBUSDT string
	USDTRUB string
	THBRUB  string
}

type RateSnapshotStale struct {
	THBUSDT bool
	USDTRUB bool
}
