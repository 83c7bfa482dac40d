package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/ingest"
)

type userRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type transactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Transaction, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type budgetRepository interface {
	Create(ctx context.Context, b *domain.Budget) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Budget, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Budget, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type debtRepository interface {
	Create(ctx context.Context, d *domain.Debt) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Debt, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Debt, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type goalRepository interface {
	Create(ctx context.Context, g *domain.SavingsGoal) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SavingsGoal, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.SavingsGoal, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	AddContribution(ctx context.Context, id primitive.ObjectID, amount float64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type holdingRepository interface {
	Create(ctx context.Context, h *domain.Holding) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Holding, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Holding, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ledgerRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.LedgerEntry, error)
	GetLastByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.LedgerEntry, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type notificationPublisher interface {
	Publish(ctx context.Context, msg ingest.TransactionMessage) error
}
