package handler

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fintrackapp/fintrack/internal/auth"
)

// callerID pulls the authenticated user from the request context; the auth
// middleware guarantees it is present on protected routes.
func callerID(r *http.Request) (primitive.ObjectID, *AppError) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, ErrMissingToken
	}
	return id, nil
}

func pathID(r *http.Request) (primitive.ObjectID, *AppError) {
	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
