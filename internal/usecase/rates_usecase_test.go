package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/memory"
	"go.uber.org/zap"
)

type fakeRateSource struct {
	mu      sync.Mutex
	rate    domain.FetchedRate
	err     error
	cleared int
}

func (s *fakeRateSource) GetRate(context.Context) (domain.FetchedRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.FetchedRate{}, s.err
	}
	return s.rate, nil
}

func (s *fakeRateSource) ClearCache(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
	// the next read is a live one
	s.rate.Cached = false
	return nil
}

func (s *fakeRateSource) Name() string { return s.rate.Source }

type recordingPublisher struct {
	mu           sync.Mutex
	observations []*domain.RateObservation
	err          error
}

func (p *recordingPublisher) PublishRateObserved(_ context.Context, observations ...*domain.RateObservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observations = append(p.observations, observations...)
	return p.err
}

func thbSource(rate float64, cached bool) *fakeRateSource {
	return &fakeRateSource{rate: domain.FetchedRate{
		Pair: domain.PairTHBUSDT, Rate: rate, Source: domain.SourceBitkub, Cached: cached, FetchedAt: time.Now(),
	}}
}

func rubSource(rate float64, cached bool) *fakeRateSource {
	return &fakeRateSource{rate: domain.FetchedRate{
		Pair: domain.PairUSDTRUB, Rate: rate, Source: domain.SourceBybitP2P, Cached: cached, FetchedAt: time.Now(),
	}}
}

type ratesFixture struct {
	uc        *DefaultRatesUsecase
	history   *memory.RateHistoryRepository
	publisher *recordingPublisher
}

func newRatesFixture(t *testing.T, thb, rub domain.RateSource) ratesFixture {
	t.Helper()
	m := newTestMetrics(t)
	repo := memory.NewRateHistoryRepository()
	history := NewDefaultRateHistoryUsecase(repo, m, zap.NewNop())
	publisher := &recordingPublisher{}
	return ratesFixture{
		uc:        NewDefaultRatesUsecase(thb, rub, history, publisher, m, zap.NewNop()),
		history:   repo,
		publisher: publisher,
	}
}

func (f ratesFixture) historyTotal(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.history.Query(context.Background(), &domain.RateHistoryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	return total
}

func TestRatesUsecase_GetRatesFromLiveSources(t *testing.T) {
	f := newRatesFixture(t, thbSource(35.2, false), rubSource(95, false))

	snapshot, err := f.uc.GetRates(context.Background())
	if err != nil {
		t.Fatalf("GetRates: %v", err)
	}

	if snapshot.THBUSDT != 35.2 || snapshot.USDTRUB != 95 {
		t.Fatalf("snapshot legs = %v / %v", snapshot.THBUSDT, snapshot.USDTRUB)
	}
	if math.Abs(snapshot.THBRUB-35.2/95) > 1e-12 {
		t.Errorf("thb_rub = %v", snapshot.THBRUB)
	}
	if math.Abs(snapshot.RUBUSDT*snapshot.USDTRUB-1) > 1e-12 {
		t.Errorf("rub_usdt = %v is not the inverse of usdt_rub", snapshot.RUBUSDT)
	}
	if snapshot.Sources.THBRUB != domain.SourceCrossCalculated || snapshot.Sources.THBUSDT != domain.SourceBitkub {
		t.Errorf("sources = %+v", snapshot.Sources)
	}

	if got := f.historyTotal(t); got != 3 {
		t.Fatalf("history rows = %d, want 3", got)
	}
	cross, _, _ := f.history.Query(context.Background(), &domain.RateHistoryFilter{Pair: &domain.PairTHBRUB})
	if len(cross) != 1 || cross[0].Source != domain.SourceCrossCalculated {
		t.Fatalf("cross rate row = %+v", cross)
	}
	if len(f.publisher.observations) != 3 {
		t.Errorf("published %d events, want 3", len(f.publisher.observations))
	}
}

func TestRatesUsecase_CachedLegsAreNotRecorded(t *testing.T) {
	f := newRatesFixture(t, thbSource(35.2, true), rubSource(95, true))

	if _, err := f.uc.GetRates(context.Background()); err != nil {
		t.Fatalf("GetRates: %v", err)
	}
	if got := f.historyTotal(t); got != 0 {
		t.Fatalf("history rows = %d, want 0", got)
	}
	if len(f.publisher.observations) != 0 {
		t.Fatalf("events published for cached values")
	}
}

func TestRatesUsecase_OneLiveLegRecordsItAndTheCross(t *testing.T) {
	f := newRatesFixture(t, thbSource(35.2, true), rubSource(95, false))

	if _, err := f.uc.GetRates(context.Background()); err != nil {
		t.Fatalf("GetRates: %v", err)
	}
	if got := f.historyTotal(t); got != 2 {
		t.Fatalf("history rows = %d, want 2", got)
	}
	thb, _, _ := f.history.Query(context.Background(), &domain.RateHistoryFilter{Pair: &domain.PairTHBUSDT})
	if len(thb) != 0 {
		t.Fatalf("cached leg was recorded")
	}
}

func TestRatesUsecase_LastUpdatedIsOldestLeg(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		thbAge   time.Duration
		rubAge   time.Duration
		zeroRUB  bool
		wantTime time.Time
	}{
		{name: "thb leg older", thbAge: 4 * time.Minute, rubAge: time.Minute, wantTime: now.Add(-4 * time.Minute)},
		{name: "rub leg older", thbAge: time.Minute, rubAge: 3 * time.Minute, wantTime: now.Add(-3 * time.Minute)},
		{name: "leg without fetch time", thbAge: 2 * time.Minute, zeroRUB: true, wantTime: now.Add(-2 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thb := thbSource(35.2, true)
			thb.rate.FetchedAt = now.Add(-tt.thbAge)
			rub := rubSource(95, true)
			rub.rate.FetchedAt = now.Add(-tt.rubAge)
			if tt.zeroRUB {
				rub.rate.FetchedAt = time.Time{}
			}
			f := newRatesFixture(t, thb, rub)

			snapshot, err := f.uc.GetRates(context.Background())
			if err != nil {
				t.Fatalf("GetRates: %v", err)
			}
			if !snapshot.LastUpdated.Equal(tt.wantTime) {
				t.Fatalf("last_updated = %v, want %v", snapshot.LastUpdated, tt.wantTime)
			}
			if snapshot.LastUpdated.Location() != time.UTC {
				t.Errorf("last_updated not in UTC: %v", snapshot.LastUpdated.Location())
			}
		})
	}
}

func TestRatesUsecase_FailingLegFailsRequest(t *testing.T) {
	rub := rubSource(95, false)
	rub.err = fmt.Errorf("%w: bybit: timeout", domain.ErrUpstreamUnavailable)
	f := newRatesFixture(t, thbSource(35.2, false), rub)

	_, err := f.uc.GetRates(context.Background())
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}

	rows, total, _ := f.history.Query(context.Background(), &domain.RateHistoryFilter{})
	if total != 1 || rows[0].Pair() != domain.PairTHBUSDT {
		t.Fatalf("history = %+v, want only the successful leg", rows)
	}
}

func TestRatesUsecase_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newRatesFixture(t, thbSource(35.2, false), rubSource(95, false))
	f.publisher.err = errors.New("broker down")

	if _, err := f.uc.GetRates(context.Background()); err != nil {
		t.Fatalf("GetRates: %v", err)
	}
	if got := f.historyTotal(t); got != 3 {
		t.Fatalf("history rows = %d, want 3", got)
	}
}

func TestRatesUsecase_RefreshClearsCaches(t *testing.T) {
	thb, rub := thbSource(35.2, true), rubSource(95, true)
	f := newRatesFixture(t, thb, rub)

	if _, err := f.uc.RefreshRates(context.Background()); err != nil {
		t.Fatalf("RefreshRates: %v", err)
	}
	if thb.cleared != 1 || rub.cleared != 1 {
		t.Fatalf("cleared = %d/%d, want 1/1", thb.cleared, rub.cleared)
	}
	if got := f.historyTotal(t); got != 3 {
		t.Fatalf("history rows = %d, want 3 after refresh", got)
	}
}
