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

type debtService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in service.CreateDebtInput) (*domain.Debt, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.Debt, error)
	Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Debt, error)
	MarkPaid(ctx context.Context, userID, id primitive.ObjectID) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

type DebtHandler struct {
	svc debtService
}

func NewDebtHandler(svc debtService) *DebtHandler {
	return &DebtHandler{svc: svc}
}

type CreateDebtRequest struct {
	Creditor    string    `json:"creditor"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Deadline    time.Time `json:"deadline"`
}

func (r CreateDebtRequest) Validate() []FieldError {
	var fields []FieldError
	if r.Creditor == "" {
		fields = append(fields, FieldError{Field: "creditor", Message: "is required"})
	}
	if r.Amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.Deadline.IsZero() {
		fields = append(fields, FieldError{Field: "deadline", Message: "is required"})
	}
	return fields
}

func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	debt, err := h.svc.Create(r.Context(), userID, service.CreateDebtInput{
		Creditor:    req.Creditor,
		Description: req.Description,
		Amount:      req.Amount,
		Deadline:    req.Deadline,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create debt", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, debt)
}

func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debts, err := h.svc.List(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list debts", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, debts)
}

func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	debt, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to fetch debt", "debt_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, debt)
}

func (h *DebtHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.MarkPaid(r.Context(), userID, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrDebtPaid) {
			logging.FromContext(r.Context()).Error("failed to mark debt paid", "debt_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "paid"})
}

func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
			logging.FromContext(r.Context()).Error("failed to delete debt", "debt_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
