package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/valuation"
)

type fakeHoldingRepo struct {
	byID map[primitive.ObjectID]*domain.Holding
}

func newFakeHoldingRepo() *fakeHoldingRepo {
	return &fakeHoldingRepo{byID: map[primitive.ObjectID]*domain.Holding{}}
}

func (f *fakeHoldingRepo) Create(_ context.Context, h *domain.Holding) error {
	h.ID = primitive.NewObjectID()
	f.byID[h.ID] = h
	return nil
}

func (f *fakeHoldingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Holding, error) {
	h, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *h
	return &copied, nil
}

func (f *fakeHoldingRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Holding, error) {
	var out []domain.Holding
	for _, h := range f.byID {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeHoldingRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (f *fakeHoldingRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeLedgerRepo struct {
	entries []domain.LedgerEntry
}

func (f *fakeLedgerRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) GetLastByUserID(_ context.Context, userID primitive.ObjectID) (*domain.LedgerEntry, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].UserID == userID {
			return &f.entries[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLedgerRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var kept []domain.LedgerEntry
	var deleted int64
	for _, e := range f.entries {
		if e.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return deleted, nil
}

type fixedPriceSource struct {
	price decimal.Decimal
	err   error
}

func (s fixedPriceSource) AssetPrice(_ context.Context, _ string) (decimal.Decimal, error) {
	return s.price, s.err
}

func (s fixedPriceSource) PairPrice(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return s.price, s.err
}

func holdingServiceWith(prices fixedPriceSource) (*HoldingService, *fakeHoldingRepo, *fakeLedgerRepo) {
	holdings := newFakeHoldingRepo()
	ledger := &fakeLedgerRepo{}
	engine := valuation.NewEngine(prices, "EUR", "USD")
	return NewHoldingService(holdings, ledger, engine), holdings, ledger
}

func validHoldingInput() CreateHoldingInput {
	return CreateHoldingInput{
		Kind:         domain.InstrumentKindCrypto,
		Symbol:       "BTC",
		Amount:       1000,
		Quantity:     2,
		PurchaseDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestHoldingCreate_Validation(t *testing.T) {
	svc, _, _ := holdingServiceWith(fixedPriceSource{price: decimal.NewFromInt(1)})
	ctx := context.Background()
	userID := primitive.NewObjectID()

	in := validHoldingInput()
	in.Kind = "bond"
	_, err := svc.Create(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	in = validHoldingInput()
	in.Symbol = ""
	_, err = svc.Create(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	in = validHoldingInput()
	in.Quantity = 0
	_, err = svc.Create(ctx, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestHoldingGet_ReturnsEnrichedValue(t *testing.T) {
	svc, _, _ := holdingServiceWith(fixedPriceSource{price: decimal.NewFromInt(1000)})
	ctx := context.Background()
	userID := primitive.NewObjectID()

	created, err := svc.Create(ctx, userID, validHoldingInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentPrice)
	require.NotNil(t, got.CurrentValue)
	assert.Equal(t, 1000.0, *got.CurrentPrice)
	assert.Equal(t, 2000.0, *got.CurrentValue)
	assert.False(t, got.PriceUnavailable)
}

func TestHoldingGet_DegradesWhenQuoteFails(t *testing.T) {
	svc, _, _ := holdingServiceWith(fixedPriceSource{err: errors.New("quote service down")})
	ctx := context.Background()
	userID := primitive.NewObjectID()

	created, err := svc.Create(ctx, userID, validHoldingInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentValue)
	assert.Equal(t, 0.0, *got.CurrentValue)
	assert.True(t, got.PriceUnavailable)
}

func TestHoldingList_EnrichesEveryHolding(t *testing.T) {
	svc, _, _ := holdingServiceWith(fixedPriceSource{price: decimal.NewFromInt(10)})
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := svc.Create(ctx, userID, validHoldingInput())
	require.NoError(t, err)

	in := validHoldingInput()
	in.Symbol = "ETH"
	_, err = svc.Create(ctx, userID, in)
	require.NoError(t, err)

	holdings, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	for _, h := range holdings {
		assert.NotNil(t, h.CurrentValue)
	}
}

func TestHoldingUpdate_EnforcesOwnership(t *testing.T) {
	svc, _, _ := holdingServiceWith(fixedPriceSource{price: decimal.NewFromInt(1)})
	ctx := context.Background()
	owner := primitive.NewObjectID()

	created, err := svc.Create(ctx, owner, validHoldingInput())
	require.NoError(t, err)

	amount := 500.0
	err = svc.Update(ctx, primitive.NewObjectID(), created.ID, UpdateHoldingInput{Amount: &amount})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Update(ctx, owner, created.ID, UpdateHoldingInput{Amount: &amount})
	assert.NoError(t, err)
}

func TestPurgeLedger_ReportsDeletedCount(t *testing.T) {
	svc, _, ledger := holdingServiceWith(fixedPriceSource{price: decimal.NewFromInt(1)})
	userID := primitive.NewObjectID()

	ledger.entries = []domain.LedgerEntry{
		{UserID: userID, Kind: domain.TransactionKindIncome, Amount: 1},
		{UserID: userID, Kind: domain.TransactionKindExpense, Amount: 2},
		{UserID: primitive.NewObjectID(), Kind: domain.TransactionKindIncome, Amount: 3},
	}

	deleted, err := svc.PurgeLedger(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Len(t, ledger.entries, 1)
}
