package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used across the store. The ledger collection keeps the
// name the ingestion pipeline has always written to.
const (
	collUsers        = "users"
	collTransactions = "transactions"
	collBudgets      = "budgets"
	collDebts        = "debts"
	collGoals        = "savingsGoals"
	collHoldings     = "investments"
	collLedger       = "ledgerEntries"

	collIdempotencyKeys = "idempotencyKeys"
)

func NewMongoDatabase(ctx context.Context, uri, dbName string) (*mongo.Database, func(context.Context) error, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("NewMongoDatabase: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("NewMongoDatabase: ping: %w", err)
	}

	return client.Database(dbName), client.Disconnect, nil
}

// Ping reports store reachability for the health endpoint.
func Ping(ctx context.Context, db *mongo.Database) error {
	if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}
