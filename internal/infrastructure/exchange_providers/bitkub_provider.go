// internal/infrastructure/exchange_providers/bitkub_provider.go
package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
)

type BitkubProvider struct {
	client  *http.Client
	baseURL string
	symbol  string
}

type BitkubTicker struct {
	Last       float64 `json:"last"`
	LowestAsk  float64 `json:"lowestAsk"`
	HighestBid float64 `json:"highestBid"`
}

func NewBitkubProvider(baseURL, symbol string) *BitkubProvider {
	return &BitkubProvider{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		symbol:  symbol,
	}
}

func (p *BitkubProvider) Name() string {
	return domain.SourceBitkub
}

func (p *BitkubProvider) Pair() domain.CurrencyPair {
	return domain.PairTHBUSDT
}

// FetchRate returns the last trade price of the ticker symbol.
func (p *BitkubProvider) FetchRate(ctx context.Context) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/market/ticker?sym=%s", p.baseURL, url.QueryEscape(p.symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to get rates from Bitkub: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bitkub API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var tickers map[string]BitkubTicker
	if err := json.Unmarshal(body, &tickers); err != nil {
		return 0, fmt.Errorf("failed to parse Bitkub response: %w", err)
	}

	ticker, ok := tickers[p.symbol]
	if !ok {
		return 0, fmt.Errorf("symbol %s not found in Bitkub ticker", p.symbol)
	}

	return ticker.Last, nil
}
