package publisher

import (
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/google/uuid"
)

const RateObservedEventType = "rate.observed"

type RateObservedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ObservationID uint      `json:"observation_id"`
	FromCurrency  string    `json:"from_currency"`
	ToCurrency    string    `json:"to_currency"`
	CurrencyPair  string    `json:"currency_pair"`
	Rate          float64   `json:"rate"`
	Source        string    `json:"source"`
	ObservedAt    time.Time `json:"observed_at"`
}

func NewRateObservedEvent(observation *domain.RateObservation) RateObservedEvent {
	return RateObservedEvent{
		EventID:       uuid.New().String(),
		EventType:     RateObservedEventType,
		ObservationID: observation.ID,
		FromCurrency:  observation.FromCurrency.String(),
		ToCurrency:    observation.ToCurrency.String(),
		CurrencyPair:  observation.Pair().String(),
		Rate:          observation.Rate,
		Source:        observation.Source,
		ObservedAt:    observation.CreatedAt,
	}
}
