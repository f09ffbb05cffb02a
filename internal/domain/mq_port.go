package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte
}

// RateEventPublisher announces freshly recorded observations to other services.
type RateEventPublisher interface {
	PublishRateObserved(ctx context.Context, observations ...*RateObservation) error
}
