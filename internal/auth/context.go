package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userIDKey struct{}

func ContextWithUserID(ctx context.Context, id primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey{}).(primitive.ObjectID)
	return id, ok
}
