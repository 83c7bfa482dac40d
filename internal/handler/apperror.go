package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key reused with a different request"}

	ErrInvalidID     = &AppError{http.StatusBadRequest, "INVALID_ID", "Invalid resource id"}
	ErrInvalidAmount = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidKind   = &AppError{http.StatusBadRequest, "INVALID_KIND", "Unknown instrument or transaction type"}
	ErrEmailTaken    = &AppError{http.StatusConflict, "EMAIL_TAKEN", "Email already registered"}
	ErrGoalCompleted = &AppError{http.StatusUnprocessableEntity, "GOAL_COMPLETED", "Savings goal already reached its target"}
	ErrDebtPaid      = &AppError{http.StatusUnprocessableEntity, "DEBT_SETTLED", "Debt is already settled"}
)
