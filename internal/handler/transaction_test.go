package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/auth"
	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/service"
)

type mockTxnService struct {
	created *service.CreateTransactionInput
	txn     *domain.Transaction
	err     error
}

func (m *mockTxnService) Create(_ context.Context, userID primitive.ObjectID, in service.CreateTransactionInput) (*domain.Transaction, error) {
	m.created = &in
	if m.err != nil {
		return nil, m.err
	}
	if m.txn != nil {
		return m.txn, nil
	}
	return &domain.Transaction{ID: primitive.NewObjectID(), UserID: userID, Kind: in.Kind, Amount: in.Amount}, nil
}

func (m *mockTxnService) List(_ context.Context, _ primitive.ObjectID) ([]domain.Transaction, error) {
	return nil, m.err
}

func (m *mockTxnService) Get(_ context.Context, _, _ primitive.ObjectID) (*domain.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.txn, nil
}

func (m *mockTxnService) Update(_ context.Context, _, _ primitive.ObjectID, _ service.UpdateTransactionInput) error {
	return m.err
}

func (m *mockTxnService) Delete(_ context.Context, _, _ primitive.ObjectID) error {
	return m.err
}

func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := auth.ContextWithUserID(r.Context(), primitive.NewObjectID())
	return r.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestTransactionCreate_Success(t *testing.T) {
	svc := &mockTxnService{}
	h := NewTransactionHandler(svc)

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":42.5,"category":"groceries"}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, svc.created)
	assert.Equal(t, domain.TransactionKindExpense, svc.created.Kind)
	assert.Equal(t, 42.5, svc.created.Amount)
}

func TestTransactionCreate_RequiresAuth(t *testing.T) {
	h := NewTransactionHandler(&mockTxnService{})

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/transactions",
		strings.NewReader(`{"type":"expense","amount":10}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_TOKEN", resp.Error.Code)
}

func TestTransactionCreate_ValidationFailure(t *testing.T) {
	svc := &mockTxnService{}
	h := NewTransactionHandler(svc)

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/transactions",
		`{"type":"transfer","amount":-3}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Nil(t, svc.created)

	details, ok := resp.Error.Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestTransactionCreate_MalformedBody(t *testing.T) {
	h := NewTransactionHandler(&mockTxnService{})

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/transactions", `{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestTransactionGet_InvalidID(t *testing.T) {
	h := NewTransactionHandler(&mockTxnService{})

	r := authedRequest(http.MethodGet, "/api/transactions/not-a-hex-id", "")
	r.SetPathValue("id", "not-a-hex-id")

	rec := httptest.NewRecorder()
	h.Get(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestTransactionGet_NotFound(t *testing.T) {
	h := NewTransactionHandler(&mockTxnService{err: domain.ErrNotFound})

	id := primitive.NewObjectID()
	r := authedRequest(http.MethodGet, "/api/transactions/"+id.Hex(), "")
	r.SetPathValue("id", id.Hex())

	rec := httptest.NewRecorder()
	h.Get(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
}
