package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/logging"
)

type budgetService interface {
	Create(ctx context.Context, userID primitive.ObjectID, categoryName string, monthlyLimit float64) (*domain.Budget, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.Budget, error)
	Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Budget, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, categoryName *string, monthlyLimit *float64) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

type BudgetHandler struct {
	svc budgetService
}

func NewBudgetHandler(svc budgetService) *BudgetHandler {
	return &BudgetHandler{svc: svc}
}

type CreateBudgetRequest struct {
	CategoryName string  `json:"categoryName"`
	MonthlyLimit float64 `json:"monthlyLimit"`
}

func (r CreateBudgetRequest) Validate() []FieldError {
	var fields []FieldError
	if r.CategoryName == "" {
		fields = append(fields, FieldError{Field: "categoryName", Message: "is required"})
	}
	if r.MonthlyLimit <= 0 {
		fields = append(fields, FieldError{Field: "monthlyLimit", Message: "must be greater than zero"})
	}
	return fields
}

type UpdateBudgetRequest struct {
	CategoryName *string  `json:"categoryName"`
	MonthlyLimit *float64 `json:"monthlyLimit"`
}

func (r UpdateBudgetRequest) Validate() []FieldError {
	var fields []FieldError
	if r.CategoryName != nil && *r.CategoryName == "" {
		fields = append(fields, FieldError{Field: "categoryName", Message: "must not be empty"})
	}
	if r.MonthlyLimit != nil && *r.MonthlyLimit <= 0 {
		fields = append(fields, FieldError{Field: "monthlyLimit", Message: "must be greater than zero"})
	}
	if r.CategoryName == nil && r.MonthlyLimit == nil {
		fields = append(fields, FieldError{Field: "body", Message: "at least one field must be set"})
	}
	return fields
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	budget, err := h.svc.Create(r.Context(), userID, req.CategoryName, req.MonthlyLimit)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create budget", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, budget)
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	budgets, err := h.svc.List(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list budgets", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, budgets)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	budget, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to fetch budget", "budget_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, budget)
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	if err := h.svc.Update(r.Context(), userID, id, req.CategoryName, req.MonthlyLimit); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to update budget", "budget_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
			logging.FromContext(r.Context()).Error("failed to delete budget", "budget_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
