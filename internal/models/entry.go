package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryStatus represents the status of a raffle entry
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusConfirmed EntryStatus = "CONFIRMED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

// Entry represents a single participant entry in a raffle.
// EntryNumber is sequential within the raffle and assigned at confirmation time.
type Entry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID      primitive.ObjectID `bson:"raffleId" json:"raffleId"`
	ParticipantID primitive.ObjectID `bson:"participantId" json:"participantId"`
	EntryNumber   int                `bson:"entryNumber" json:"entryNumber"`
	Status        EntryStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
