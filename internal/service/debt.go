package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
)

type DebtService struct {
	debts debtRepository
}

func NewDebtService(debts debtRepository) *DebtService {
	return &DebtService{debts: debts}
}

type CreateDebtInput struct {
	Creditor    string
	Description string
	Amount      float64
	Deadline    time.Time
}

func (s *DebtService) Create(ctx context.Context, userID primitive.ObjectID, in CreateDebtInput) (*domain.Debt, error) {
	if in.Creditor == "" || in.Deadline.IsZero() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidRequest)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}

	d := &domain.Debt{
		UserID:      userID,
		Creditor:    in.Creditor,
		Description: in.Description,
		Amount:      in.Amount,
		IsPaid:      false,
		Deadline:    in.Deadline,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.debts.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return d, nil
}

func (s *DebtService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.Debt, error) {
	debts, err := s.debts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return debts, nil
}

func (s *DebtService) Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Debt, error) {
	d, err := s.debts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if d.UserID != userID {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	return d, nil
}

// MarkPaid settles a debt. Settling twice is rejected.
func (s *DebtService) MarkPaid(ctx context.Context, userID, id primitive.ObjectID) error {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("MarkPaid: %w", err)
	}
	if d.IsPaid {
		return fmt.Errorf("MarkPaid: %w", domain.ErrDebtPaid)
	}
	if err := s.debts.Update(ctx, id, bson.M{"isPaid": true}); err != nil {
		return fmt.Errorf("MarkPaid: %w", err)
	}
	return nil
}

func (s *DebtService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if err := s.debts.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
