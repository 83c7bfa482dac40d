package main

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fintrackapp/fintrack/internal/handler"
	"github.com/fintrackapp/fintrack/internal/middleware"
	"github.com/fintrackapp/fintrack/internal/repository"
)

func registerRoutes(mux *http.ServeMux, jwtSecret string, db *mongo.Database, h routeHandlers, idempotency *repository.IdempotencyRepository) {
	health := handler.NewHealthHandler(db)
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)

	mux.HandleFunc("POST /api/auth/register", h.auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.auth.Login)

	authed := middleware.Auth(jwtSecret)
	idem := middleware.Idempotency(idempotency)

	protect := func(fn http.HandlerFunc) http.Handler {
		return authed(fn)
	}
	protectIdem := func(fn http.HandlerFunc) http.Handler {
		return authed(idem(fn))
	}

	mux.Handle("GET /api/users/me", protect(h.user.Me))
	mux.Handle("PUT /api/users/me", protect(h.user.UpdateMe))
	mux.Handle("DELETE /api/users/me", protect(h.user.DeleteMe))

	mux.Handle("POST /api/transactions", protectIdem(h.transaction.Create))
	mux.Handle("GET /api/transactions", protect(h.transaction.List))
	mux.Handle("GET /api/transactions/{id}", protect(h.transaction.Get))
	mux.Handle("PUT /api/transactions/{id}", protect(h.transaction.Update))
	mux.Handle("DELETE /api/transactions/{id}", protect(h.transaction.Delete))

	mux.Handle("POST /api/budgets", protect(h.budget.Create))
	mux.Handle("GET /api/budgets", protect(h.budget.List))
	mux.Handle("GET /api/budgets/{id}", protect(h.budget.Get))
	mux.Handle("PUT /api/budgets/{id}", protect(h.budget.Update))
	mux.Handle("DELETE /api/budgets/{id}", protect(h.budget.Delete))

	mux.Handle("POST /api/debts", protect(h.debt.Create))
	mux.Handle("GET /api/debts", protect(h.debt.List))
	mux.Handle("GET /api/debts/{id}", protect(h.debt.Get))
	mux.Handle("POST /api/debts/{id}/pay", protect(h.debt.MarkPaid))
	mux.Handle("DELETE /api/debts/{id}", protect(h.debt.Delete))

	mux.Handle("POST /api/goals", protect(h.goal.Create))
	mux.Handle("GET /api/goals", protect(h.goal.List))
	mux.Handle("GET /api/goals/{id}", protect(h.goal.Get))
	mux.Handle("POST /api/goals/{id}/contribute", protect(h.goal.Contribute))
	mux.Handle("PUT /api/goals/{id}", protect(h.goal.Update))
	mux.Handle("DELETE /api/goals/{id}", protect(h.goal.Delete))

	mux.Handle("POST /api/investments", protect(h.investment.Create))
	mux.Handle("GET /api/investments", protect(h.investment.List))
	mux.Handle("GET /api/investments/{id}", protect(h.investment.Get))
	mux.Handle("PUT /api/investments/{id}", protect(h.investment.Update))
	mux.Handle("DELETE /api/investments/{id}", protect(h.investment.Delete))

	mux.Handle("GET /api/ledger", protect(h.investment.ListLedgerEntries))
	mux.Handle("GET /api/ledger/last", protect(h.investment.LastLedgerEntry))
	mux.Handle("DELETE /api/ledger", protect(h.investment.PurgeLedger))
}
