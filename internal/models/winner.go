package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Winner represents a revealed winner of a raffle.
// One row exists per (raffle, position); no entry may win twice in one raffle.
type Winner struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID         primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	EntryID          primitive.ObjectID `bson:"entryId" json:"entryId"`
	EntryNumber      int                `bson:"entryNumber" json:"entryNumber"`
	ParticipantID    primitive.ObjectID `bson:"participantId" json:"participantId"`
	DisplayName      string             `bson:"displayName" json:"displayName"`
	Position         int                `bson:"position" json:"position"` // 1..totalWinners
	RevealedAt       time.Time          `bson:"revealedAt" json:"revealedAt"`
	PurchaseDeadline time.Time          `bson:"purchaseDeadline" json:"purchaseDeadline"`
	HasPurchased     bool               `bson:"hasPurchased" json:"hasPurchased"` // set by the order-completion flow, read-only here
	NotifiedAt       time.Time          `bson:"notifiedAt,omitempty" json:"notifiedAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
