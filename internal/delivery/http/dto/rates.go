package dto

import (
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
)

type RatesResponse struct {
	THBUSDT     float64          `json:"thb_usdt"`
	USDTRUB     float64          `json:"usdt_rub"`
	RUBUSDT     float64          `json:"rub_usdt"`
	THBRUB      float64          `json:"thb_rub"`
	LastUpdated time.Time        `json:"last_updated"`
	Sources     RateSourcesBlock `json:"sources"`
	Stale       RateStaleBlock   `json:"stale"`
}

type RateSourcesBlock struct {
	THBUSDT string `json:"thb_usdt"`
	USDTRUB string `json:"usdt_rub"`
	THBRUB  string `json:"thb_rub"`
}

type RateStaleBlock struct {
	THBUSDT bool `json:"thb_usdt"`
	USDTRUB bool `json:"usdt_rub"`
}

type RateObservationResponse struct {
	ID           uint      `json:"id"`
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

type RateHistoryStatsResponse struct {
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	CurrencyPair string    `json:"currency_pair"`
	Count        int64     `json:"count"`
	MinRate      float64   `json:"min_rate"`
	MaxRate      float64   `json:"max_rate"`
	AvgRate      float64   `json:"avg_rate"`
	FirstAt      time.Time `json:"first_at"`
	LastAt       time.Time `json:"last_at"`
}

func ToRatesResponse(snapshot *domain.RateSnapshot) RatesResponse {
	return RatesResponse{
		THBUSDT:     snapshot.THBUSDT,
		USDTRUB:     snapshot.USDTRUB,
		RUBUSDT:     snapshot.RUBUSDT,
		THBRUB:      snapshot.THBRUB,
		LastUpdated: snapshot.LastUpdated,
		Sources: RateSourcesBlock{
			THBUSDT: snapshot.Sources.THBUSDT,
			USDTRUB: snapshot.Sources.USDTRUB,
			THBRUB:  snapshot.Sources.THBRUB,
		},
		Stale: RateStaleBlock{
			THBUSDT: snapshot.Stale.THBUSDT,
			USDTRUB: snapshot.Stale.USDTRUB,
		},
	}
}

func ToRateObservationResponses(observations []*domain.RateObservation) []RateObservationResponse {
	out := make([]RateObservationResponse, len(observations))
	for i, observation := range observations {
		out[i] = RateObservationResponse{
			ID:           observation.ID,
			FromCurrency: observation.FromCurrency.String(),
			ToCurrency:   observation.ToCurrency.String(),
			Rate:         observation.Rate,
			Source:       observation.Source,
			CreatedAt:    observation.CreatedAt,
		}
	}
	return out
}

func ToRateHistoryStatsResponses(stats []*domain.RateHistoryStats) []RateHistoryStatsResponse {
	out := make([]RateHistoryStatsResponse, len(stats))
	for i, s := range stats {
		out[i] = RateHistoryStatsResponse{
			FromCurrency: s.FromCurrency.String(),
			ToCurrency:   s.ToCurrency.String(),
			CurrencyPair: domain.CurrencyPair{From: s.FromCurrency, To: s.ToCurrency}.String(),
			Count:        s.Count,
			MinRate:      s.MinRate,
			MaxRate:      s.MaxRate,
			AvgRate:      s.AvgRate,
			FirstAt:      s.FirstAt,
			LastAt:       s.LastAt,
		}
	}
	return out
}
