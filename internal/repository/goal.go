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

type GoalRepository struct {
	coll *mongo.Collection
}

func NewGoalRepository(db *mongo.Database) *GoalRepository {
	return &GoalRepository{coll: db.Collection(collGoals)}
}

func (r *GoalRepository) Create(ctx context.Context, g *domain.SavingsGoal) error {
	res, err := r.coll.InsertOne(ctx, g)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		g.ID = id
	}
	return nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &g, nil
}

func (r *GoalRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.SavingsGoal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer cur.Close(ctx)

	var goals []domain.SavingsGoal
	if err := cur.All(ctx, &goals); err != nil {
		return nil, fmt.Errorf("GetByUserID: decode: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
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

// AddContribution atomically increments the saved amount.
func (r *GoalRepository) AddContribution(ctx context.Context, id primitive.ObjectID, amount float64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"currentAmount": amount},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("AddContribution: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("AddContribution: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}
