package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
)

type BudgetService struct {
	budgets budgetRepository
}

func NewBudgetService(budgets budgetRepository) *BudgetService {
	return &BudgetService{budgets: budgets}
}

func (s *BudgetService) Create(ctx context.Context, userID primitive.ObjectID, categoryName string, monthlyLimit float64) (*domain.Budget, error) {
	if categoryName == "" {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidRequest)
	}
	if monthlyLimit <= 0 {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}

	b := &domain.Budget{
		UserID:       userID,
		CategoryName: categoryName,
		MonthlyLimit: monthlyLimit,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.budgets.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return b, nil
}

func (s *BudgetService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.Budget, error) {
	budgets, err := s.budgets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return budgets, nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Budget, error) {
	b, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	return b, nil
}

func (s *BudgetService) Update(ctx context.Context, userID, id primitive.ObjectID, categoryName *string, monthlyLimit *float64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	fields := bson.M{}
	if categoryName != nil {
		if *categoryName == "" {
			return fmt.Errorf("Update: %w", domain.ErrInvalidRequest)
		}
		fields["categoryName"] = *categoryName
	}
	if monthlyLimit != nil {
		if *monthlyLimit <= 0 {
			return fmt.Errorf("Update: %w", domain.ErrInvalidAmount)
		}
		fields["monthlyLimit"] = *monthlyLimit
	}
	if len(fields) == 0 {
		return fmt.Errorf("Update: %w", domain.ErrInvalidRequest)
	}

	if err := s.budgets.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if err := s.budgets.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
