package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
)

func TestParseHistoryFilter(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		paginated bool
		wantErr   string
	}{
		{name: "from reported before to", query: "from=bad&to=bad", wantErr: `invalid from: "bad"`},
		{name: "limit reported before offset", query: "limit=x&offset=y", paginated: true, wantErr: `invalid limit: "x"`},
		{name: "time bounds reported before paging", query: "offset=y&to=bad", paginated: true, wantErr: `invalid to: "bad"`},
		{name: "paging ignored on stats", query: "limit=x&offset=y"},
		{name: "valid query", query: "currency_pair=THB_RUB&from=2024-01-01&to=2024-01-02T00:00:00Z&limit=10&offset=5", paginated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Repeated so an order-dependent error choice shows up.
			for i := 0; i < 20; i++ {
				req := httptest.NewRequest(http.MethodGet, "/api/rates/history?"+tt.query, nil)
				_, err := parseHistoryFilter(req, tt.paginated)
				if tt.wantErr == "" {
					if err != nil {
						t.Fatalf("parseHistoryFilter: %v", err)
					}
					continue
				}
				if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %s", err, tt.wantErr)
				}
			}
		})
	}
}

func TestParseHistoryFilter_Values(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/rates/history?from=2024-01-01&to=2024-01-02T12:00:00Z&limit=10&offset=5", nil)
	filter, err := parseHistoryFilter(req, true)
	if err != nil {
		t.Fatalf("parseHistoryFilter: %v", err)
	}

	if filter.From == nil || !filter.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", filter.From)
	}
	if filter.To == nil || !filter.To.Equal(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v", filter.To)
	}
	if filter.Limit != 10 || filter.Offset != 5 {
		t.Errorf("limit, offset = %d, %d", filter.Limit, filter.Offset)
	}
}
