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

type holdingService interface {
	Create(ctx context.Context, userID primitive.ObjectID, in service.CreateHoldingInput) (*domain.Holding, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.Holding, error)
	Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Holding, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, in service.UpdateHoldingInput) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	LastLedgerEntry(ctx context.Context, userID primitive.ObjectID) (*domain.LedgerEntry, error)
	LedgerEntries(ctx context.Context, userID primitive.ObjectID) ([]domain.LedgerEntry, error)
	PurgeLedger(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type InvestmentHandler struct {
	svc holdingService
}

func NewInvestmentHandler(svc holdingService) *InvestmentHandler {
	return &InvestmentHandler{svc: svc}
}

type CreateHoldingRequest struct {
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	Quantity     float64   `json:"quantity"`
	Currency     string    `json:"currency"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

func (r CreateHoldingRequest) Validate() []FieldError {
	var fields []FieldError
	if !domain.InstrumentKind(r.Type).IsValid() {
		fields = append(fields, FieldError{Field: "type", Message: "must be stock, crypto or cash"})
	}
	if r.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	if r.Amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.Quantity <= 0 {
		fields = append(fields, FieldError{Field: "quantity", Message: "must be greater than zero"})
	}
	if r.PurchaseDate.IsZero() {
		fields = append(fields, FieldError{Field: "purchaseDate", Message: "is required"})
	}
	return fields
}

func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req CreateHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	holding, err := h.svc.Create(r.Context(), userID, service.CreateHoldingInput{
		Kind:         domain.InstrumentKind(req.Type),
		Symbol:       req.Name,
		Amount:       req.Amount,
		Quantity:     req.Quantity,
		Currency:     req.Currency,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create holding", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, holding)
}

func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	holdings, err := h.svc.List(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list holdings", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, holdings)
}

func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	holding, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to fetch holding", "holding_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, holding)
}

type UpdateHoldingRequest struct {
	Amount   *float64 `json:"amount"`
	Quantity *float64 `json:"quantity"`
	Currency *string  `json:"currency"`
}

func (r UpdateHoldingRequest) Validate() []FieldError {
	var fields []FieldError
	if r.Amount != nil && *r.Amount <= 0 {
		fields = append(fields, FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if r.Quantity != nil && *r.Quantity <= 0 {
		fields = append(fields, FieldError{Field: "quantity", Message: "must be greater than zero"})
	}
	if r.Amount == nil && r.Quantity == nil && r.Currency == nil {
		fields = append(fields, FieldError{Field: "body", Message: "at least one field must be set"})
	}
	return fields
}

func (h *InvestmentHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	if err := h.svc.Update(r.Context(), userID, id, service.UpdateHoldingInput{
		Amount:   req.Amount,
		Quantity: req.Quantity,
		Currency: req.Currency,
	}); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to update holding", "holding_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *InvestmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
			logging.FromContext(r.Context()).Error("failed to delete holding", "holding_id", id.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *InvestmentHandler) LastLedgerEntry(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	entry, err := h.svc.LastLedgerEntry(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to fetch last ledger entry", "user_id", userID.Hex(), "error", err)
		}
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, entry)
}

func (h *InvestmentHandler) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	entries, err := h.svc.LedgerEntries(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list ledger entries", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, entries)
}

func (h *InvestmentHandler) PurgeLedger(w http.ResponseWriter, r *http.Request) {
	userID, appErr := callerID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	deleted, err := h.svc.PurgeLedger(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to purge ledger", "user_id", userID.Hex(), "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
