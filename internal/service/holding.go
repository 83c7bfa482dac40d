package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/domain"
	"github.com/fintrackapp/fintrack/internal/valuation"
)

// HoldingService manages investment positions and exposes the mirrored
// transaction ledger maintained by the ingestion consumer. Reads run the
// valuation engine; holdings themselves are never mutated by valuation.
type HoldingService struct {
	holdings holdingRepository
	ledger   ledgerRepository
	engine   *valuation.Engine
}

func NewHoldingService(holdings holdingRepository, ledger ledgerRepository, engine *valuation.Engine) *HoldingService {
	return &HoldingService{holdings: holdings, ledger: ledger, engine: engine}
}

type CreateHoldingInput struct {
	Kind         domain.InstrumentKind
	Symbol       string
	Amount       float64
	Quantity     float64
	Currency     string
	PurchaseDate time.Time
}

func (s *HoldingService) Create(ctx context.Context, userID primitive.ObjectID, in CreateHoldingInput) (*domain.Holding, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidKind)
	}
	if in.Symbol == "" || in.PurchaseDate.IsZero() {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidRequest)
	}
	if in.Amount <= 0 || in.Quantity <= 0 {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidAmount)
	}

	h := &domain.Holding{
		UserID:       userID,
		Kind:         in.Kind,
		Symbol:       in.Symbol,
		Amount:       in.Amount,
		Quantity:     in.Quantity,
		Currency:     in.Currency,
		PurchaseDate: in.PurchaseDate,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.holdings.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return h, nil
}

// List returns the user's holdings with current prices and values filled
// in. Quote failures degrade individual rows, never the listing.
func (s *HoldingService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.Holding, error) {
	holdings, err := s.holdings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	s.engine.EnrichAll(ctx, holdings)
	return holdings, nil
}

func (s *HoldingService) Get(ctx context.Context, userID, id primitive.ObjectID) (*domain.Holding, error) {
	h, err := s.holdings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if h.UserID != userID {
		return nil, fmt.Errorf("Get: %w", domain.ErrNotFound)
	}
	s.engine.Enrich(ctx, h)
	return h, nil
}

type UpdateHoldingInput struct {
	Amount   *float64
	Quantity *float64
	Currency *string
}

func (s *HoldingService) Update(ctx context.Context, userID, id primitive.ObjectID, in UpdateHoldingInput) error {
	h, err := s.holdings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if h.UserID != userID {
		return fmt.Errorf("Update: %w", domain.ErrNotFound)
	}

	fields := bson.M{}
	if in.Amount != nil {
		if *in.Amount <= 0 {
			return fmt.Errorf("Update: %w", domain.ErrInvalidAmount)
		}
		fields["amount"] = *in.Amount
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return fmt.Errorf("Update: %w", domain.ErrInvalidAmount)
		}
		fields["quantity"] = *in.Quantity
	}
	if in.Currency != nil {
		fields["currency"] = *in.Currency
	}
	if len(fields) == 0 {
		return fmt.Errorf("Update: %w", domain.ErrInvalidRequest)
	}

	if err := s.holdings.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

func (s *HoldingService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	h, err := s.holdings.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if h.UserID != userID {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	if err := s.holdings.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (s *HoldingService) LastLedgerEntry(ctx context.Context, userID primitive.ObjectID) (*domain.LedgerEntry, error) {
	entry, err := s.ledger.GetLastByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("LastLedgerEntry: %w", err)
	}
	return entry, nil
}

func (s *HoldingService) LedgerEntries(ctx context.Context, userID primitive.ObjectID) ([]domain.LedgerEntry, error) {
	entries, err := s.ledger.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("LedgerEntries: %w", err)
	}
	return entries, nil
}

// PurgeLedger removes every mirrored entry for the user. It is an
// administrative operation and not transactional with anything else.
func (s *HoldingService) PurgeLedger(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.ledger.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("PurgeLedger: %w", err)
	}
	return n, nil
}
