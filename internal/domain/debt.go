package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Debt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Creditor    string             `bson:"creditor" json:"creditor"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Amount      float64            `bson:"amount" json:"amount"`
	IsPaid      bool               `bson:"isPaid" json:"isPaid"`
	Deadline    time.Time          `bson:"deadline" json:"deadline"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
