package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerEntry is the mirrored summary of an ingested transaction
// notification. Entries are written only by the queue consumer, never
// updated in place, and are deletable in bulk per user.
type LedgerEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Kind      TransactionKind    `bson:"lastTransactionType" json:"lastTransactionType"`
	Amount    float64            `bson:"lastTransactionAmount" json:"lastTransactionAmount"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
