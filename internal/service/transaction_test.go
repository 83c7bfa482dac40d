package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/ingest"
)

type fakeTxnRepo struct {
	byID    map[primitive.ObjectID]*domain.Transaction
	updates map[primitive.ObjectID]bson.M
}

func newFakeTxnRepo() *fakeTxnRepo {
	return &fakeTxnRepo{
		byID:    map[primitive.ObjectID]*domain.Transaction{},
		updates: map[primitive.ObjectID]bson.M{},
	}
}

func (f *fakeTxnRepo) Create(_ context.Context, txn *domain.Transaction) error {
	txn.ID = primitive.NewObjectID()
	f.byID[txn.ID] = txn
	return nil
}

func (f *fakeTxnRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Transaction, error) {
	txn, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return txn, nil
}

func (f *fakeTxnRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, txn := range f.byID {
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (f *fakeTxnRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	f.updates[id] = fields
	return nil
}

func (f *fakeTxnRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePublisher struct {
	published []ingest.TransactionMessage
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, msg ingest.TransactionMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTransactionCreate_PublishesNotification(t *testing.T) {
	repo := newFakeTxnRepo()
	pub := &fakePublisher{}
	svc := NewTransactionService(repo, pub, discardLogger())

	userID := primitive.NewObjectID()
	date := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	txn, err := svc.Create(context.Background(), userID, CreateTransactionInput{
		Kind:     domain.TransactionKindExpense,
		Amount:   42.50,
		Category: "groceries",
		Date:     date,
	})
	require.NoError(t, err)
	assert.False(t, txn.ID.IsZero())

	require.Len(t, pub.published, 1)
	msg := pub.published[0]
	assert.Equal(t, userID.Hex(), msg.UserID)
	assert.Equal(t, "expense", msg.Type)
	assert.Equal(t, 42.50, msg.Amount)
	assert.Equal(t, date.Format(time.RFC3339), msg.Timestamp)
}

func TestTransactionCreate_PublishFailureDoesNotFailCreate(t *testing.T) {
	repo := newFakeTxnRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(repo, pub, discardLogger())

	txn, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateTransactionInput{
		Kind:   domain.TransactionKindIncome,
		Amount: 100,
	})

	require.NoError(t, err)
	assert.Contains(t, repo.byID, txn.ID)
}

func TestTransactionCreate_Validation(t *testing.T) {
	svc := NewTransactionService(newFakeTxnRepo(), &fakePublisher{}, discardLogger())
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := svc.Create(ctx, userID, CreateTransactionInput{Kind: "transfer", Amount: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = svc.Create(ctx, userID, CreateTransactionInput{Kind: domain.TransactionKindIncome, Amount: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, userID, CreateTransactionInput{Kind: domain.TransactionKindIncome, Amount: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestTransactionCreate_DefaultsDateToNow(t *testing.T) {
	svc := NewTransactionService(newFakeTxnRepo(), &fakePublisher{}, discardLogger())

	before := time.Now().UTC()
	txn, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateTransactionInput{
		Kind:   domain.TransactionKindIncome,
		Amount: 10,
	})

	require.NoError(t, err)
	assert.False(t, txn.Date.Before(before))
}

func TestTransactionGet_EnforcesOwnership(t *testing.T) {
	repo := newFakeTxnRepo()
	svc := NewTransactionService(repo, &fakePublisher{}, discardLogger())
	ctx := context.Background()

	owner := primitive.NewObjectID()
	txn, err := svc.Create(ctx, owner, CreateTransactionInput{
		Kind:   domain.TransactionKindIncome,
		Amount: 10,
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, primitive.NewObjectID(), txn.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(ctx, owner, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)
}

func TestTransactionUpdate_RejectsEmptyPatch(t *testing.T) {
	repo := newFakeTxnRepo()
	svc := NewTransactionService(repo, &fakePublisher{}, discardLogger())
	ctx := context.Background()

	owner := primitive.NewObjectID()
	txn, err := svc.Create(ctx, owner, CreateTransactionInput{
		Kind:   domain.TransactionKindIncome,
		Amount: 10,
	})
	require.NoError(t, err)

	err = svc.Update(ctx, owner, txn.ID, UpdateTransactionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestTransactionUpdate_PatchesOnlyGivenFields(t *testing.T) {
	repo := newFakeTxnRepo()
	svc := NewTransactionService(repo, &fakePublisher{}, discardLogger())
	ctx := context.Background()

	owner := primitive.NewObjectID()
	txn, err := svc.Create(ctx, owner, CreateTransactionInput{
		Kind:     domain.TransactionKindIncome,
		Amount:   10,
		Category: "salary",
	})
	require.NoError(t, err)

	amount := 25.0
	err = svc.Update(ctx, owner, txn.ID, UpdateTransactionInput{Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"amount": 25.0}, repo.updates[txn.ID])
}
