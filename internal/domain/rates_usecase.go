package domain

import "context"

type RatesUsecase interface {
	GetRates(ctx context.Context) (*RateSnapshot, error)
	RefreshRates(ctx context.Context) (*RateSnapshot, error)
}

type RateHistoryUsecase interface {
	Append(ctx context.Context, observation *RateObservation) error
	AppendBatch(ctx context.Context, observations []*RateObservation) error
	Query(ctx context.Context, filter RateHistoryFilter) (*RateHistoryPage, error)
	Stats(ctx context.Context, filter RateHistoryFilter) ([]*RateHistoryStats, error)
}
