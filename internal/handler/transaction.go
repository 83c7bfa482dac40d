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

type transactionService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in service.CreateTransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.Transaction, error)
	Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Transaction, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, in service.UpdateTransactionInput) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
}

type TransactionHandler struct {
	svc transactionService
}

func NewTransactionHandler(svc transactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type CreateTransactionRequest struct {
	Type     string     `json:"type"`
	Amount   float64    `json:"amount"`
	Category string     `json:"category"`
	Date     *time.Time `json:"date"`
}

func (r CreateTransactionRequest) Validate() []FieldError {
	var fields []FieldError
	if !domain.TransactionKind(r.Type).IsValid() {
		fields = append(fields, FieldError{Field: "type", Message: "must be income or expense"})
	}
	if r.Amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	return fields
}

type UpdateTransactionRequest struct {
	Type     *string    `json:"type"`
	Amount   *float64   `json:"amount"`
	Category *string    `json:"category"`
	Date     *time.Time `json:"date"`
}

func (r UpdateTransactionRequest) Validate() []FieldError {
	var fields []FieldError
	if r.Type != nil && !domain.TransactionKind(*r.Type).IsValid() {
		fields = append(fields, FieldError{Field: "type", Message: "must be income or expense"})
	}
	if r.Amount != nil && *r.Amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.Type == nil && r.Amount == nil && r.Category == nil && r.Date == nil {
		fields = append(fields, FieldError{Field: "body", Message: "at least one field must be set"})
	}
	return fields
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	in := service.CreateTransactionInput{
		Kind:     domain.TransactionKind(req.Type),
		Amount:   req.Amount,
		Category: req.Category,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	txn, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create transaction", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	txns, err := h.svc.List(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, txns)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	txn, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to fetch transaction", "transaction_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, txn)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	in := service.UpdateTransactionInput{
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
	}
	if req.Type != nil {
		kind := domain.TransactionKind(*req.Type)
		in.Kind = &kind
	}

	if err := h.svc.Update(r.Context(), userID, id, in); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to update transaction", "transaction_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
			logging.FromContext(r.Context()).Error("failed to delete transaction", "transaction_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
