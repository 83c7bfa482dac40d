package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetPrice(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantPrice string
		wantErr   bool
	}{
		{
			name:      "string price",
			status:    http.StatusOK,
			body:      `{"price":"193.02"}`,
			wantPrice: "193.02",
		},
		{
			name:      "numeric price",
			status:    http.StatusOK,
			body:      `{"price":1000}`,
			wantPrice: "1000",
		},
		{
			name:      "unknown fields ignored",
			status:    http.StatusOK,
			body:      `{"price":"42.5","currency":"USD","is_market_open":true}`,
			wantPrice: "42.5",
		},
		{
			name:    "non-200 status",
			status:  http.StatusTooManyRequests,
			body:    `{"message":"rate limit"}`,
			wantErr: true,
		},
		{
			name:    "error payload without price",
			status:  http.StatusOK,
			body:    `{"code":404,"message":"symbol not found","status":"error"}`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/price", r.URL.Path)
				assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
				assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "test-key")
			price, err := c.AssetPrice(context.Background(), "AAPL")

			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, price.Equal(decimal.RequireFromString(tc.wantPrice)),
				"price: got %s, want %s", price, tc.wantPrice)
		})
	}
}

func TestPairPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "USD/EUR", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`{"price":"0.92"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	rate, err := c.PairPrice(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.92")))
}

func TestAssetPrice_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "test-key")
	_, err := c.AssetPrice(context.Background(), "AAPL")
	require.Error(t, err)
}
