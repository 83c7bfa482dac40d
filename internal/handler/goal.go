package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/logging"
	"github.com/fintrackapp/fintrack/internal/service"
)

type goalService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in service.CreateGoalInput) (*domain.SavingsGoal, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.SavingsGoal, error)
	Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.SavingsGoal, error)
	Contribute(ctx context.Context, userID, id primitive.ObjectID, amount float64) error
	Update(ctx context.Context, userID, id primitive.ObjectID, goalName *string, targetAmount *float64, deadline *time.Time) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

type GoalHandler struct {
	svc goalService
}

func NewGoalHandler(svc goalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

type CreateGoalRequest struct {
	GoalName     string     `json:"goalName"`
	TargetAmount float64    `json:"targetAmount"`
	StartDate    *time.Time `json:"startDate"`
	Deadline     time.Time  `json:"deadline"`
}

func (r CreateGoalRequest) Validate() []FieldError {
	var fields []FieldError
	if r.GoalName == "" {
		fields = append(fields, FieldError{Field: "goalName", Message: "is required"})
	}
	if r.TargetAmount <= 0 {
		fields = append(fields, FieldError{Field: "targetAmount", Message: "must be greater than zero"})
	}
	if r.Deadline.IsZero() {
		fields = append(fields, FieldError{Field: "deadline", Message: "is required"})
	}
	return fields
}

type UpdateGoalRequest struct {
	GoalName     *string    `json:"goalName"`
	TargetAmount *float64   `json:"targetAmount"`
	Deadline     *time.Time `json:"deadline"`
}

func (r UpdateGoalRequest) Validate() []FieldError {
	var fields []FieldError
	if r.GoalName != nil && *r.GoalName == "" {
		fields = append(fields, FieldError{Field: "goalName", Message: "must not be empty"})
	}
	if r.TargetAmount != nil && *r.TargetAmount <= 0 {
		fields = append(fields, FieldError{Field: "targetAmount", Message: "must be greater than zero"})
	}
	if r.GoalName == nil && r.TargetAmount == nil && r.Deadline == nil {
		fields = append(fields, FieldError{Field: "body", Message: "at least one field must be set"})
	}
	return fields
}

type ContributeRequest struct {
	Amount float64 `json:"amount"`
}

func (r ContributeRequest) Validate() []FieldError {
	var fields []FieldError
	if r.Amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	return fields
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	in := service.CreateGoalInput{
		GoalName:     req.GoalName,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	}
	if req.StartDate != nil {
		in.StartDate = *req.StartDate
	}

	goal, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create savings goal", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	goals, err := h.svc.List(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list savings goals", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	goal, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to fetch savings goal", "goal_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, goal)
}

func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req ContributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	if err := h.svc.Contribute(r.Context(), userID, id, req.Amount); err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrGoalCompleted) {
			logging.FromContext(r.Context()).Error("failed to contribute to savings goal", "goal_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "contributed"})
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	if err := h.svc.Update(r.Context(), userID, id, req.GoalName, req.TargetAmount, req.Deadline); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to update savings goal", "goal_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to delete savings goal", "goal_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
