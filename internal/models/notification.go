package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification represents one winner notification attempt
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID      primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	WinnerID      primitive.ObjectID `bson:"winnerId" json:"winnerId"`
	ParticipantID primitive.ObjectID `bson:"participantId" json:"participantId"`
	Email         string             `bson:"email" json:"email"`
	Subject       string             `bson:"subject" json:"subject"`
	Status        string             `bson:"status" json:"status"` // SENT, FAILED
	MessageID     string             `bson:"messageId,omitempty" json:"messageId,omitempty"`
	Gateway       string             `bson:"gateway,omitempty" json:"gateway,omitempty"`
	SentAt        time.Time          `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
