package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrackapp/fintrack/internal/config"
	"github.com/fintrackapp/fintrack/internal/handler"
	"github.com/fintrackapp/fintrack/internal/ingest"
	"github.com/fintrackapp/fintrack/internal/logging"
	"github.com/fintrackapp/fintrack/internal/middleware"
	"github.com/fintrackapp/fintrack/internal/quote"
	"github.com/fintrackapp/fintrack/internal/repository"
	"github.com/fintrackapp/fintrack/internal/service"
	"github.com/fintrackapp/fintrack/internal/valuation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("fintrack-api", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, disconnect, err := repository.NewMongoDatabase(ctx, cfg.MongoURL, cfg.DatabaseName)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := disconnect(shutdownCtx); err != nil {
			slog.Error("failed to disconnect from database", "error", err)
		}
	}()

	users := repository.NewUserRepository(db)
	txns := repository.NewTransactionRepository(db)
	budgets := repository.NewBudgetRepository(db)
	debts := repository.NewDebtRepository(db)
	goals := repository.NewGoalRepository(db)
	holdings := repository.NewHoldingRepository(db)
	ledger := repository.NewLedgerRepository(db)

	idempotency, err := repository.NewIdempotencyRepository(ctx, db)
	if err != nil {
		slog.Error("failed to prepare idempotency cache", "error", err)
		os.Exit(1)
	}

	publisher := ingest.NewAMQPPublisher(cfg.AMQPURL, cfg.QueueName)
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("failed to close publisher", "error", err)
		}
	}()

	prices := quote.NewClient(cfg.QuoteBaseURL, cfg.QuoteAPIKey)
	engine := valuation.NewEngine(prices, cfg.DisplayCurrency, cfg.NativeCurrency)

	userSvc := service.NewUserService(users, cfg.JWTSecret, cfg.JWTExpiry())
	txnSvc := service.NewTransactionService(txns, publisher, slog.Default())
	budgetSvc := service.NewBudgetService(budgets)
	debtSvc := service.NewDebtService(debts)
	goalSvc := service.NewGoalService(goals)
	holdingSvc := service.NewHoldingService(holdings, ledger, engine)

	consumer := ingest.NewConsumer(
		ingest.NewAMQPBroker(cfg.AMQPURL, cfg.QueueName),
		ledger,
		slog.Default(),
		cfg.ReconnectWait(),
		cfg.PollInterval(),
		cfg.IdleInterval(),
	)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		consumer.Run(ctx)
	}()

	mux := http.NewServeMux()
	registerRoutes(mux, cfg.JWTSecret, db, routeHandlers{
		auth:        handler.NewAuthHandler(userSvc),
		user:        handler.NewUserHandler(userSvc),
		transaction: handler.NewTransactionHandler(txnSvc),
		budget:      handler.NewBudgetHandler(budgetSvc),
		debt:        handler.NewDebtHandler(debtSvc),
		goal:        handler.NewGoalHandler(goalSvc),
		investment:  handler.NewInvestmentHandler(holdingSvc),
	}, idempotency)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	<-consumerDone
	slog.Info("server stopped")
}

type routeHandlers struct {
	auth        *handler.AuthHandler
	user        *handler.UserHandler
	transaction *handler.TransactionHandler
	budget      *handler.BudgetHandler
	debt        *handler.DebtHandler
	goal        *handler.GoalHandler
	investment  *handler.InvestmentHandler
}
