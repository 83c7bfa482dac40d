package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fintrackapp/fintrack/internal/domain"
)

type BudgetRepository struct {
	coll *mongo.Collection
}

func NewBudgetRepository(db *mongo.Database) *BudgetRepository {
	return &BudgetRepository{coll: db.Collection(collBudgets)}
}

func (r *BudgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	res, err := r.coll.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	return nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Budget, error) {
	var b domain.Budget
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &b, nil
}

func (r *BudgetRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Budget, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer cur.Close(ctx)

	var budgets []domain.Budget
	if err := cur.All(ctx, &budgets); err != nil {
		return nil, fmt.Errorf("GetByUserID: decode: %w", err)
	}
	return budgets, nil
}

func (r *BudgetRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
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

func (r *BudgetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}
