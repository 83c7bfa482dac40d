package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/repository"
	"github.com/fintrackapp/fintrack/internal/testutil"
)

func TestLedgerRepository_CreateAndReadBack(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.SetupTestDB(t)
	repo := repository.NewLedgerRepository(db)
	ctx := context.Background()

	userID := primitive.NewObjectID()
	entry := testutil.NewLedgerEntry(userID, domain.TransactionKindExpense, 42.5)

	require.NoError(t, repo.Create(ctx, entry))
	assert.False(t, entry.ID.IsZero())

	entries, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.TransactionKindExpense, entries[0].Kind)
	assert.Equal(t, 42.5, entries[0].Amount)
	assert.WithinDuration(t, entry.Timestamp, entries[0].Timestamp, time.Millisecond)
}

func TestLedgerRepository_GetLastOrdersByTimestamp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.SetupTestDB(t)
	repo := repository.NewLedgerRepository(db)
	ctx := context.Background()

	userID := primitive.NewObjectID()

	older := testutil.NewLedgerEntry(userID, domain.TransactionKindIncome, 100)
	older.Timestamp = older.Timestamp.Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))

	newest := testutil.NewLedgerEntry(userID, domain.TransactionKindExpense, 7)
	require.NoError(t, repo.Create(ctx, newest))

	last, err := repo.GetLastByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, last.ID)
	assert.Equal(t, domain.TransactionKindExpense, last.Kind)
}

func TestLedgerRepository_GetLastEmptyIsNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.SetupTestDB(t)
	repo := repository.NewLedgerRepository(db)

	_, err := repo.GetLastByUserID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerRepository_DeleteByUserIDPurgesOnlyThatUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := testutil.SetupTestDB(t)
	repo := repository.NewLedgerRepository(db)
	ctx := context.Background()

	target := primitive.NewObjectID()
	other := primitive.NewObjectID()

	require.NoError(t, repo.Create(ctx, testutil.NewLedgerEntry(target, domain.TransactionKindIncome, 1)))
	require.NoError(t, repo.Create(ctx, testutil.NewLedgerEntry(target, domain.TransactionKindExpense, 2)))
	require.NoError(t, repo.Create(ctx, testutil.NewLedgerEntry(other, domain.TransactionKindIncome, 3)))

	deleted, err := repo.DeleteByUserID(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.GetByUserID(ctx, other)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
