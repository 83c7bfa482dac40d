// Package valuation computes display-currency values for holdings at read
// time. The computation is read-only and idempotent: nothing it produces is
// written back to the store.
package valuation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/logging"
	"github.com/fintrackapp/fintrack/internal/quote"
)

type Engine struct {
	prices          quote.PriceSource
	displayCurrency string
	nativeCurrency  string
}

func NewEngine(prices quote.PriceSource, displayCurrency, nativeCurrency string) *Engine {
	return &Engine{
		prices:          prices,
		displayCurrency: displayCurrency,
		nativeCurrency:  nativeCurrency,
	}
}

// Enrich sets CurrentPrice and CurrentValue on the holding. A failed quote
// degrades both to zero and sets PriceUnavailable instead of returning an
// error, so one bad quote cannot fail a whole portfolio listing.
func (e *Engine) Enrich(ctx context.Context, h *domain.Holding) {
	unit, err := e.unitPrice(ctx, h)
	if err != nil {
		log := logging.FromContext(ctx)
		log.Warn("price unavailable, degrading value to zero",
			"holding_id", h.ID.Hex(),
			"symbol", h.Symbol,
			"kind", h.Kind,
			"error", err,
		)
		zero := 0.0
		h.CurrentPrice = &zero
		h.CurrentValue = &zero
		h.PriceUnavailable = true
		return
	}

	value := unit.Mul(decimal.NewFromFloat(h.Quantity))

	unitF, _ := unit.Float64()
	valueF, _ := value.Float64()
	h.CurrentPrice = &unitF
	h.CurrentValue = &valueF
	h.PriceUnavailable = false
}

// EnrichAll values every holding in place. Failures are per-holding; the
// slice is always fully processed.
func (e *Engine) EnrichAll(ctx context.Context, holdings []domain.Holding) {
	for i := range holdings {
		e.Enrich(ctx, &holdings[i])
	}
}

func (e *Engine) unitPrice(ctx context.Context, h *domain.Holding) (decimal.Decimal, error) {
	switch h.Kind {
	case domain.InstrumentKindCrypto:
		price, err := e.prices.PairPrice(ctx, h.Symbol, e.displayCurrency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unitPrice: %w", err)
		}
		return price, nil

	case domain.InstrumentKindStock:
		native, err := e.prices.AssetPrice(ctx, h.Symbol)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unitPrice: %w", err)
		}

		from := h.Currency
		if from == "" {
			from = e.nativeCurrency
		}
		if from == e.displayCurrency {
			return native, nil
		}

		rate, err := e.prices.PairPrice(ctx, from, e.displayCurrency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unitPrice: %w", err)
		}
		// Conversion is a product of the native price and the FX rate.
		return native.Mul(rate), nil

	default:
		// cash and any non-priced kind: the stored purchase amount is the
		// unit price, no external call.
		return decimal.NewFromFloat(h.Amount), nil
	}
}
