package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SavingsGoal struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	GoalName      string             `bson:"goalName" json:"goalName"`
	TargetAmount  float64            `bson:"targetAmount" json:"targetAmount"`
	CurrentAmount float64            `bson:"currentAmount" json:"currentAmount"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	Deadline      time.Time          `bson:"deadline" json:"deadline"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
