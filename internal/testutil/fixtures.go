package testutil

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
)

func NewUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.User{
		Email:        "jane@example.com",
		Name:         "Jane Doe",
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NewHolding(userID primitive.ObjectID, kind domain.InstrumentKind, symbol string) *domain.Holding {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Holding{
		UserID:       userID,
		Kind:         kind,
		Symbol:       symbol,
		Amount:       1000,
		Quantity:     10,
		Currency:     "USD",
		PurchaseDate: now.AddDate(0, -6, 0),
		CreatedAt:    now,
	}
}

func NewLedgerEntry(userID primitive.ObjectID, kind domain.TransactionKind, amount float64) *domain.LedgerEntry {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.LedgerEntry{
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		Timestamp: now,
		CreatedAt: now,
	}
}
