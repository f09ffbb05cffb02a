// internal/infrastructure/exchange_providers/bybit_p2p_provider.go
package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
)

type BybitP2PConfig struct {
	BaseURL    string
	TokenID    string
	CurrencyID string
	Side       string
	PageSize   int
	// позиции стакана, по которым считается средняя цена
	PositionStart int
	PositionEnd   int
}

type BybitP2PProvider struct {
	client *http.Client
	cfg    BybitP2PConfig
}

type BybitP2PRequest struct {
	UserID     string   `json:"userId"`
	TokenID    string   `json:"tokenId"`
	CurrencyID string   `json:"currencyId"`
	Payment    []string `json:"payment"`
	Side       string   `json:"side"`
	Size       string   `json:"size"`
	Page       string   `json:"page"`
	Amount     string   `json:"amount"`
	AuthMaker  bool     `json:"authMaker"`
	CanTrade   bool     `json:"canTrade"`
}

type BybitP2PItem struct {
	Price     string `json:"price"`
	NickName  string `json:"nickName"`
	MinAmount string `json:"minAmount"`
	MaxAmount string `json:"maxAmount"`
}

type BybitP2PResponse struct {
	RetCode int    `json:"ret_code"`
	RetMsg  string `json:"ret_msg"`
	Result  struct {
		Count int            `json:"count"`
		Items []BybitP2PItem `json:"items"`
	} `json:"result"`
}

func NewBybitP2PProvider(cfg BybitP2PConfig) *BybitP2PProvider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &BybitP2PProvider{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		cfg: cfg,
	}
}

func (p *BybitP2PProvider) Name() string {
	return domain.SourceBybitP2P
}

func (p *BybitP2PProvider) Pair() domain.CurrencyPair {
	return domain.PairUSDTRUB
}

// FetchRate returns the average advert price over the configured positions
// of the P2P order book.
func (p *BybitP2PProvider) FetchRate(ctx context.Context) (float64, error) {
	payload, err := json.Marshal(BybitP2PRequest{
		TokenID:    p.cfg.TokenID,
		CurrencyID: p.cfg.CurrencyID,
		Payment:    []string{},
		Side:       p.cfg.Side,
		Size:       strconv.Itoa(p.cfg.PageSize),
		Page:       "1",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := p.cfg.BaseURL + "/fiat/otc/item/online"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to get rates from Bybit P2P: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bybit P2P API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var bybitResponse BybitP2PResponse
	if err := json.Unmarshal(body, &bybitResponse); err != nil {
		return 0, fmt.Errorf("failed to parse Bybit P2P response: %w", err)
	}
	if bybitResponse.RetCode != 0 {
		return 0, fmt.Errorf("bybit P2P API error %d: %s", bybitResponse.RetCode, bybitResponse.RetMsg)
	}

	return p.calculateAveragePrice(bybitResponse.Result.Items, p.cfg.PositionStart, p.cfg.PositionEnd)
}

func (p *BybitP2PProvider) calculateAveragePrice(items []BybitP2PItem, start, end int) (float64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("no items in order book")
	}

	// Стакан может быть короче настроенного диапазона
	if end >= len(items) {
		end = len(items) - 1
	}
	if start < 0 || start > end {
		return 0, fmt.Errorf("invalid positions range: start=%d, end=%d, available=%d", start, end, len(items))
	}

	total := 0.0
	count := 0

	for i := start; i <= end; i++ {
		price, err := strconv.ParseFloat(items[i].Price, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q at position %d: %w", items[i].Price, i, err)
		}
		total += price
		count++
	}

	return total / float64(count), nil
}
