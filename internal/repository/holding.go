package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fintrackapp/fintrack/internal/domain"
)

// HoldingRepository persists investment positions. The valuation engine
// never writes through this repository: current price and value are derived
// per read and deliberately not stored.
type HoldingRepository struct {
	coll *mongo.Collection
}

func NewHoldingRepository(db *mongo.Database) *HoldingRepository {
	return &HoldingRepository{coll: db.Collection(collHoldings)}
}

func (r *HoldingRepository) Create(ctx context.Context, h *domain.Holding) error {
	res, err := r.coll.InsertOne(ctx, h)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		h.ID = id
	}
	return nil
}

func (r *HoldingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Holding, error) {
	var h domain.Holding
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&h)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &h, nil
}

func (r *HoldingRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Holding, error) {
	opts := options.Find().SetSort(bson.D{{Key: "purchaseDate", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer cur.Close(ctx)

	var holdings []domain.Holding
	if err := cur.All(ctx, &holdings); err != nil {
		return nil, fmt.Errorf("GetByUserID: decode: %w", err)
	}
	return holdings, nil
}

func (r *HoldingRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *HoldingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}
