package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fintrackapp/fintrack/internal/domain"
)

// LedgerRepository is the persistence facade for mirrored transaction
// summaries. Create is the only write path used by the queue consumer;
// entries are never updated in place.
type LedgerRepository struct {
	coll *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{coll: db.Collection(collLedger)}
}

func (r *LedgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	res, err := r.coll.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = id
	}
	return nil
}

func (r *LedgerRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.LedgerEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer cur.Close(ctx)

	var entries []domain.LedgerEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("GetByUserID: decode: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepository) GetLastByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.LedgerEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var entry domain.LedgerEntry
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("GetLastByUserID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetLastByUserID: %w", err)
	}
	return &entry, nil
}

// DeleteByUserID is the administrative bulk purge. It is not transactional
// with any other operation.
func (r *LedgerRepository) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("DeleteByUserID: %w", err)
	}
	return res.DeletedCount, nil
}
