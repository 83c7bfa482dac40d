// Package quote fetches current unit prices from the external quote
// service. The wire shape is the provider's concern; callers only see the
// PriceSource capability.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackapp/fintrack/internal/logging"
)

// PriceSource is the capability consumed by the valuation engine.
// AssetPrice returns the unit price of a symbol in its native currency;
// PairPrice returns the price of a base/quote pair (used both for crypto
// priced directly in the display currency and for FX conversion rates).
type PriceSource interface {
	AssetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PairPrice(ctx context.Context, base, quote string) (decimal.Decimal, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type priceResponse struct {
	Price json.Number `json:"price"`
}

func (c *Client) AssetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p, err := c.fetchPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("AssetPrice: %w", err)
	}
	return p, nil
}

func (c *Client) PairPrice(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	p, err := c.fetchPrice(ctx, base+"/"+quote)
	if err != nil {
		return decimal.Zero, fmt.Errorf("PairPrice: %w", err)
	}
	return p, nil
}

func (c *Client) fetchPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	log := logging.FromContext(ctx)

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetchPrice: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetchPrice: send: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("quote response received",
		"symbol", symbol,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("fetchPrice: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var pr priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return decimal.Zero, fmt.Errorf("fetchPrice: decode: %w", err)
	}
	if pr.Price == "" {
		return decimal.Zero, fmt.Errorf("fetchPrice: no price for %s", symbol)
	}

	price, err := decimal.NewFromString(pr.Price.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetchPrice: parse price %q: %w", pr.Price, err)
	}
	return price, nil
}
