package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
)

type GoalService struct {
	goals goalRepository
}

func NewGoalService(goals goalRepository) *GoalService {
	return &GoalService{goals: goals}
}

type CreateGoalInput struct {
	GoalName     string
	TargetAmount float64
	StartDate    time.Time
	Deadline     time.Time
}

func (s *GoalService) Create(ctx context.Context, userID primitive.ObjectID, in CreateGoalInput) (*domain.SavingsGoal, error) {
	if in.GoalName == "" || in.Deadline.IsZero() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidRequest)
	}
	if in.TargetAmount <= 0 {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Now().UTC()
	}

	g := &domain.SavingsGoal{
		UserID:        userID,
		GoalName:      in.GoalName,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: 0,
		StartDate:     in.StartDate,
		Deadline:      in.Deadline,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.goals.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return g, nil
}

func (s *GoalService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.SavingsGoal, error) {
	goals, err := s.goals.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return goals, nil
}

func (s *GoalService) Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.SavingsGoal, error) {
	g, err := s.goals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if g.UserID != userID {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	return g, nil
}

// Contribute adds to the saved amount. Contributions to a goal that has
// already reached its target are rejected.
func (s *GoalService) Contribute(ctx context.Context, userID, id primitive.ObjectID, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("Contribute: %w", domain.ErrInvalidAmount)
	}

	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("Contribute: %w", err)
	}
	if g.CurrentAmount >= g.TargetAmount {
		return fmt.Errorf("Contribute: %w", domain.ErrGoalCompleted)
	}

	if err := s.goals.AddContribution(ctx, id, amount); err != nil {
		return fmt.Errorf("Contribute: %w", err)
	}
	return nil
}

func (s *GoalService) Update(ctx context.Context, userID, id primitive.ObjectID, goalName *string, targetAmount *float64, deadline *time.Time) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	fields := bson.M{}
	if goalName != nil {
		if *goalName == "" {
			return fmt.Errorf("Update: %w", domain.ErrInvalidRequest)
		}
		fields["goalName"] = *goalName
	}
	if targetAmount != nil {
		if *targetAmount <= 0 {
			return fmt.Errorf("Update: %w", domain.ErrInvalidAmount)
		}
		fields["targetAmount"] = *targetAmount
	}
	if deadline != nil {
		fields["deadline"] = *deadline
	}
	if len(fields) == 0 {
		return fmt.Errorf("Update: %w", domain.ErrInvalidRequest)
	}

	if err := s.goals.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if err := s.goals.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
