package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/panterex-service/internal/delivery/http/handlers"
	"github.com/LavaJover/panterex-service/internal/delivery/http/jwtutil"
	"github.com/LavaJover/panterex-service/internal/delivery/http/middleware"
	"github.com/LavaJover/panterex-service/internal/delivery/http/router"
	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/LavaJover/panterex-service/internal/infrastructure/memory"
	"github.com/LavaJover/panterex-service/internal/infrastructure/metrics"
	"github.com/LavaJover/panterex-service/internal/usecase"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "panterex-auth"
	testAudience = "panterex-admin"
)

type liveSource struct {
	pair   domain.CurrencyPair
	rate   float64
	source string
}

func (s liveSource) GetRate(context.Context) (domain.FetchedRate, error) {
	return domain.FetchedRate{Pair: s.pair, Rate: s.rate, Source: s.source, FetchedAt: time.Now()}, nil
}

func (s liveSource) ClearCache(context.Context) error { return nil }

func (s liveSource) Name() string { return s.source }

type apiResponse struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Total  int64 `json:"total"`
		Limit  int   `json:"limit"`
		Offset int   `json:"offset"`
	} `json:"pagination"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	m := metrics.NewRatesMetrics(registry)

	historyUC := usecase.NewDefaultRateHistoryUsecase(memory.NewRateHistoryRepository(), m, logger)
	ratesUC := usecase.NewDefaultRatesUsecase(
		liveSource{pair: domain.PairTHBUSDT, rate: 35.2, source: domain.SourceBitkub},
		liveSource{pair: domain.PairUSDTRUB, rate: 95, source: domain.SourceBybitP2P},
		historyUC,
		noopPublisher{},
		m,
		logger,
	)
	commissionUC := usecase.NewDefaultCommissionUsecase(memory.NewCommissionRepository(memory.DefaultTiers()...), 1.0, m, logger)
	settingUC := usecase.NewDefaultSettingUsecase(memory.NewSettingRepository(memory.DefaultSettings()...), logger)

	auth := middleware.NewAuthMiddleware(jwtutil.NewVerifier(testSecret, testIssuer, testAudience), logger)
	r, err := router.SetupRoutes(router.Handlers{
		Rates:       handlers.NewRatesHandler(ratesUC, historyUC, logger),
		Commissions: handlers.NewCommissionHandler(commissionUC, logger),
		Settings:    handlers.NewSettingHandler(settingUC, logger),
		Health:      handlers.NewHealthHandler("test", nil, logger),
	}, auth, m, logger, router.Options{
		AllowedOrigins: []string{"*"},
		AdminRole:      "admin",
		RequestTimeout: 5 * time.Second,
		MetricsPath:    "/metrics",
		Gatherer:       registry,
	})
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type noopPublisher struct{}

func (noopPublisher) PublishRateObserved(context.Context, ...*domain.RateObservation) error {
	return nil
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwtutil.Claims{
		UserID: "u-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) (int, apiResponse) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func TestRoutes_StatusCodes(t *testing.T) {
	srv := newTestServer(t)
	admin := signToken(t, "admin")
	viewer := signToken(t, "viewer")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"health is public", http.MethodGet, "/api/health", "", "", http.StatusOK},
		{"rates are public", http.MethodGet, "/api/rates", "", "", http.StatusOK},
		{"history needs a token", http.MethodGet, "/api/rates/history", "", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/rates/history", "not-a-jwt", "", http.StatusUnauthorized},
		{"history with any role", http.MethodGet, "/api/rates/history", viewer, "", http.StatusOK},
		{"negative limit", http.MethodGet, "/api/rates/history?limit=-1", viewer, "", http.StatusBadRequest},
		{"bad pair", http.MethodGet, "/api/rates/history?currency_pair=THB", viewer, "", http.StatusBadRequest},
		{"from after to", http.MethodGet, "/api/rates/history?from=2024-03-02&to=2024-03-01", viewer, "", http.StatusBadRequest},
		{"stats", http.MethodGet, "/api/rates/history/stats", viewer, "", http.StatusOK},
		{"tiers are public", http.MethodGet, "/api/commissions", "", "", http.StatusOK},
		{"unknown currency", http.MethodGet, "/api/commissions/eur", "", "", http.StatusBadRequest},
		{"resolve without amount", http.MethodGet, "/api/commissions/rub/resolve", "", "", http.StatusBadRequest},
		{"create needs a token", http.MethodPost, "/api/commissions", "", `{"currency":"USDT","min_amount":0,"commission_percent":1}`, http.StatusUnauthorized},
		{"create needs admin", http.MethodPost, "/api/commissions", viewer, `{"currency":"USDT","min_amount":0,"commission_percent":1}`, http.StatusForbidden},
		{"create without percent", http.MethodPost, "/api/commissions", admin, `{"currency":"USDT"}`, http.StatusBadRequest},
		{"create with unknown field", http.MethodPost, "/api/commissions", admin, `{"currency":"USDT","commission_percent":1,"fee":2}`, http.StatusBadRequest},
		{"create overlapping tier", http.MethodPost, "/api/commissions", admin, `{"currency":"RUB","min_amount":1000,"max_amount":2000,"commission_percent":1}`, http.StatusBadRequest},
		{"update unknown tier", http.MethodPut, "/api/commissions/999", admin, `{"commission_percent":4}`, http.StatusNotFound},
		{"update bad id", http.MethodPut, "/api/commissions/abc", admin, `{"commission_percent":4}`, http.StatusBadRequest},
		{"delete unknown tier", http.MethodDelete, "/api/commissions/999", admin, "", http.StatusNotFound},
		{"config needs admin", http.MethodGet, "/api/config", viewer, "", http.StatusForbidden},
		{"config list", http.MethodGet, "/api/config", admin, "", http.StatusOK},
		{"unknown setting", http.MethodGet, "/api/config/NOPE", admin, "", http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nope", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, tt.method, tt.path, tt.token, tt.body)
			if status != tt.want {
				t.Fatalf("status = %d, want %d (message %q)", status, tt.want, body.Message)
			}
			wantStatus := "success"
			if tt.want >= http.StatusBadRequest {
				wantStatus = "error"
			}
			if body.Status != wantStatus {
				t.Errorf("envelope status = %q, want %q", body.Status, wantStatus)
			}
		})
	}
}

func TestRoutes_RatesAndHistory(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, "viewer")

	status, body := do(t, srv, http.MethodGet, "/api/rates", "", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var rates struct {
		THBUSDT float64 `json:"thb_usdt"`
		USDTRUB float64 `json:"usdt_rub"`
		THBRUB  float64 `json:"thb_rub"`
		Sources struct {
			THBRUB string `json:"thb_rub"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(body.Data, &rates); err != nil {
		t.Fatal(err)
	}
	if rates.THBUSDT != 35.2 || rates.USDTRUB != 95 || rates.Sources.THBRUB != domain.SourceCrossCalculated {
		t.Fatalf("rates = %+v", rates)
	}

	status, body = do(t, srv, http.MethodGet, "/api/rates/history?limit=2&currency_pair=thb_rub", token, "")
	if status != http.StatusOK {
		t.Fatalf("history status = %d", status)
	}
	if body.Pagination == nil || body.Pagination.Total != 1 || body.Pagination.Limit != 2 {
		t.Fatalf("pagination = %+v", body.Pagination)
	}

	status, body = do(t, srv, http.MethodGet, "/api/rates/history?limit=2", token, "")
	if status != http.StatusOK {
		t.Fatalf("history status = %d", status)
	}
	var rows []struct {
		Rate float64 `json:"rate"`
	}
	if err := json.Unmarshal(body.Data, &rows); err != nil {
		t.Fatal(err)
	}
	if body.Pagination.Total != 3 || len(rows) != 2 {
		t.Fatalf("total=%d rows=%d, want 3/2", body.Pagination.Total, len(rows))
	}
}

func TestRoutes_CommissionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	admin := signToken(t, "admin")

	status, body := do(t, srv, http.MethodGet, "/api/commissions/rub/resolve?amount=5000", "", "")
	if status != http.StatusOK {
		t.Fatalf("resolve status = %d", status)
	}
	var quote struct {
		CommissionPercent float64 `json:"commission_percent"`
		CommissionAmount  string  `json:"commission_amount"`
		Outcome           string  `json:"outcome"`
	}
	if err := json.Unmarshal(body.Data, &quote); err != nil {
		t.Fatal(err)
	}
	if quote.CommissionPercent != 9 || quote.CommissionAmount != "450" || quote.Outcome != string(domain.OutcomeTier) {
		t.Fatalf("quote = %+v", quote)
	}

	// Bound the THB top tier, then add a new unbounded tier above it.
	status, body = do(t, srv, http.MethodGet, "/api/commissions/thb", "", "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	var tiers []struct {
		ID        uint     `json:"id"`
		MinAmount float64  `json:"min_amount"`
		MaxAmount *float64 `json:"max_amount"`
	}
	if err := json.Unmarshal(body.Data, &tiers); err != nil {
		t.Fatal(err)
	}
	if len(tiers) != 5 || tiers[4].MaxAmount != nil {
		t.Fatalf("thb tiers = %+v", tiers)
	}
	top := tiers[4].ID

	status, _ = do(t, srv, http.MethodPut, "/api/commissions/"+strconv.FormatUint(uint64(top), 10), admin, `{"max_amount":200000}`)
	if status != http.StatusOK {
		t.Fatalf("bound top tier status = %d", status)
	}

	status, body = do(t, srv, http.MethodPost, "/api/commissions", admin, `{"currency":"THB","min_amount":200000,"max_amount":null,"commission_percent":1.5}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", status, body.Message)
	}
	var created struct {
		ID        uint     `json:"id"`
		MaxAmount *float64 `json:"max_amount"`
	}
	if err := json.Unmarshal(body.Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.MaxAmount != nil {
		t.Fatalf("created = %+v", created)
	}

	status, body = do(t, srv, http.MethodGet, "/api/commissions/thb/resolve?amount=250000", "", "")
	if status != http.StatusOK || !strings.Contains(string(body.Data), `"commission_percent":1.5`) {
		t.Fatalf("resolve after create: %d %s", status, body.Data)
	}

	status, _ = do(t, srv, http.MethodDelete, "/api/commissions/"+strconv.FormatUint(uint64(created.ID), 10), admin, "")
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
}

func TestRoutes_ConfigLifecycle(t *testing.T) {
	srv := newTestServer(t)
	admin := signToken(t, "admin")

	status, _ := do(t, srv, http.MethodPost, "/api/config", admin, `{"key":"PAYOUT_WINDOW","value":"30","description":"minutes"}`)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	status, _ = do(t, srv, http.MethodPost, "/api/config", admin, `{"key":"PAYOUT_WINDOW","value":"31"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate create status = %d", status)
	}

	status, body := do(t, srv, http.MethodPut, "/api/config/PAYOUT_WINDOW", admin, `{"value":"45"}`)
	if status != http.StatusOK || !strings.Contains(string(body.Data), `"value":"45"`) {
		t.Fatalf("update: %d %s", status, body.Data)
	}

	status, _ = do(t, srv, http.MethodDelete, "/api/config/PAYOUT_WINDOW", admin, "")
	if status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	status, _ = do(t, srv, http.MethodGet, "/api/config/PAYOUT_WINDOW", admin, "")
	if status != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", status)
	}
}
