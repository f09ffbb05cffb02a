package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"go.uber.org/zap"
)

type countingRates struct {
	calls atomic.Int32
	err   error
}

func (c *countingRates) GetRates(context.Context) (*domain.RateSnapshot, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.RateSnapshot{THBUSDT: 35.2, USDTRUB: 95, THBRUB: 0.37}, nil
}

func (c *countingRates) RefreshRates(ctx context.Context) (*domain.RateSnapshot, error) {
	return c.GetRates(ctx)
}

func waitForCalls(t *testing.T, rates *countingRates, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for rates.calls.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("got %d rate reads, want at least %d", rates.calls.Load(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartAll_RefreshesOnTicker(t *testing.T) {
	rates := &countingRates{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	NewBackgroundTasks(rates, 10*time.Millisecond, zap.NewNop()).StartAll(ctx)

	waitForCalls(t, rates, 3)
}

func TestStartAll_KeepsRunningAfterFailures(t *testing.T) {
	rates := &countingRates{err: errors.New("upstream down")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	NewBackgroundTasks(rates, 10*time.Millisecond, zap.NewNop()).StartAll(ctx)

	waitForCalls(t, rates, 2)
}

func TestStartAll_DisabledWithoutInterval(t *testing.T) {
	rates := &countingRates{}
	NewBackgroundTasks(rates, 0, zap.NewNop()).StartAll(context.Background())

	time.Sleep(30 * time.Millisecond)
	if n := rates.calls.Load(); n != 0 {
		t.Fatalf("got %d rate reads with refresh disabled", n)
	}
}
