package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InstrumentKind string

const (
	InstrumentKindStock  InstrumentKind = "stock"
	InstrumentKindCrypto InstrumentKind = "crypto"
	InstrumentKindCash   InstrumentKind = "cash"
)

func (k InstrumentKind) IsValid() bool {
	switch k {
	case InstrumentKindStock, InstrumentKindCrypto, InstrumentKindCash:
		return true
	}
	return false
}

// Holding is a user's position in an investment vehicle. Quantity and
// purchase amount are fixed at creation. CurrentPrice and CurrentValue are
// derived at read time by the valuation engine and are never authoritative;
// PriceUnavailable marks a value that degraded to zero because no quote
// could be fetched.
type Holding struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	Kind             InstrumentKind     `bson:"type" json:"type"`
	Symbol           string             `bson:"name" json:"name"`
	Amount           float64            `bson:"amount" json:"amount"`
	Quantity         float64            `bson:"quantity" json:"quantity"`
	Currency         string             `bson:"currency,omitempty" json:"currency,omitempty"`
	PurchaseDate     time.Time          `bson:"purchaseDate" json:"purchaseDate"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	CurrentPrice     *float64           `bson:"-" json:"currentPrice,omitempty"`
	CurrentValue     *float64           `bson:"-" json:"currentValue,omitempty"`
	PriceUnavailable bool               `bson:"-" json:"priceUnavailable,omitempty"`
}
