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

type DebtRepository struct {
	coll *mongo.Collection
}

func NewDebtRepository(db *mongo.Database) *DebtRepository {
	return &DebtRepository{coll: db.Collection(collDebts)}
}

func (r *DebtRepository) Create(ctx context.Context, d *domain.Debt) error {
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = id
	}
	return nil
}

func (r *DebtRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Debt, error) {
	var d domain.Debt
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &d, nil
}

func (r *DebtRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Debt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer cur.Close(ctx)

	var debts []domain.Debt
	if err := cur.All(ctx, &debts); err != nil {
		return nil, fmt.Errorf("GetByUserID: decode: %w", err)
	}
	return debts, nil
}

func (r *DebtRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
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

func (r *DebtRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}
