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
)

// IdempotencyCacheEntry is a cached response for a mutating request. Entries
// expire via a TTL index on expiresAt; Mongo reaps them in the background.
type IdempotencyCacheEntry struct {
	Key          string             `bson:"key"`
	UserID       primitive.ObjectID `bson:"userId"`
	RequestHash  string             `bson:"requestHash"`
	StatusCode   int                `bson:"statusCode"`
	ResponseBody []byte             `bson:"responseBody"`
	CreatedAt    time.Time          `bson:"createdAt"`
	ExpiresAt    time.Time          `bson:"expiresAt"`
}

type IdempotencyRepository struct {
	coll *mongo.Collection
}

func NewIdempotencyRepository(ctx context.Context, db *mongo.Database) (*IdempotencyRepository, error) {
	coll := db.Collection(collIdempotencyKeys)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("NewIdempotencyRepository: create indexes: %w", err)
	}

	return &IdempotencyRepository{coll: coll}, nil
}

// Get returns (nil, nil) on a cache miss.
func (r *IdempotencyRepository) Get(ctx context.Context, key string, userID primitive.ObjectID) (*IdempotencyCacheEntry, error) {
	var entry IdempotencyCacheEntry
	err := r.coll.FindOne(ctx, bson.M{"key": key, "userId": userID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("Get: %w", err)
	}
	if time.Now().UTC().After(entry.ExpiresAt) {
		return nil, nil
	}
	return &entry, nil
}

func (r *IdempotencyRepository) Set(ctx context.Context, entry *IdempotencyCacheEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("Set: %w", err)
	}
	return nil
}
