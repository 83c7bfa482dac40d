package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/ingest"
)

type TransactionService struct {
	txns      transactionRepository
	publisher notificationPublisher
	logger    *slog.Logger
}

func NewTransactionService(txns transactionRepository, publisher notificationPublisher, logger *slog.Logger) *TransactionService {
	return &TransactionService{txns: txns, publisher: publisher, logger: logger}
}

type CreateTransactionInput struct {
	Kind     domain.TransactionKind
	Amount   float64
	Category string
	Date     time.Time
}

func (s *TransactionService) Create(ctx context.Context, userID primitive.ObjectID, in CreateTransactionInput) (*domain.Transaction, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidKind)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	txn := &domain.Transaction{
		UserID:    userID,
		Kind:      in.Kind,
		Amount:    in.Amount,
		Category:  in.Category,
		Date:      in.Date,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	// Fire-and-forget: the ingestion pipeline mirrors this into the ledger
	// eventually; a publish failure must not fail the recorded transaction.
	msg := ingest.TransactionMessage{
		UserID:    userID.Hex(),
		Type:      string(txn.Kind),
		Amount:    txn.Amount,
		Timestamp: txn.Date.UTC().Format(time.RFC3339),
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Error("failed to publish transaction notification",
			"transaction_id", txn.ID.Hex(),
			"user_id", userID.Hex(),
			"error", err,
		)
	}

	return txn, nil
}

func (s *TransactionService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.Transaction, error) {
	txns, err := s.txns.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return txns, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Transaction, error) {
	txn, err := s.txns.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	return txn, nil
}

type UpdateTransactionInput struct {
	Kind     *domain.TransactionKind
	Amount   *float64
	Category *string
	Date     *time.Time
}

func (s *TransactionService) Update(ctx context.Context, userID, id primitive.ObjectID, in UpdateTransactionInput) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	fields := bson.M{}
	if in.Kind != nil {
		if !in.Kind.IsValid() {
			return fmt.Errorf("Update: %w", domain.ErrInvalidKind)
		}
		fields["type"] = *in.Kind
	}
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return fmt.Errorf("Update: %w", domain.ErrInvalidAmount)
		}
		fields["amount"] = *in.Amount
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Date != nil {
		fields["date"] = *in.Date
	}
	if len(fields) == 0 {
		return fmt.Errorf("Update: %w", domain.ErrInvalidRequest)
	}

	if err := s.txns.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if err := s.txns.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
