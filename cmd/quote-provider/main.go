package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/fintrackapp/fintrack/internal/logging"
)

// Static quotes for local development. Pair symbols follow the BASE/QUOTE
// convention the valuation engine uses for FX lookups.
var prices = map[string]string{
	"AAPL":    "187.44",
	"MSFT":    "415.20",
	"TSLA":    "244.50",
	"BTC/EUR": "59320.10",
	"ETH/EUR": "2890.55",
	"USD/EUR": "0.92",
	"GBP/EUR": "1.17",
}

func main() {
	logging.Init("quote-provider", "info", os.Getenv("APP_ENV"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})

	mux.HandleFunc("GET /price", func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")

		price, ok := prices[symbol]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			if err := json.NewEncoder(w).Encode(map[string]string{
				"code":    "not_found",
				"message": "symbol not found: " + symbol,
			}); err != nil {
				slog.Error("failed to write error response", "error", err)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"price": price}); err != nil {
			slog.Error("failed to write price response", "error", err)
		}
	})

	slog.Info("quote provider started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
