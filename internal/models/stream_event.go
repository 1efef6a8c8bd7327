package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreamEventType identifies the kind of drawing stream event
type StreamEventType string

const (
	StreamEventStarted        StreamEventType = "STARTED"
	StreamEventWinnerRevealed StreamEventType = "WINNER_REVEALED"
	StreamEventCompleted      StreamEventType = "COMPLETED"
)

// StartedPayload carries the counts announced when a drawing begins
type StartedPayload struct {
	TotalWinners int `bson:"totalWinners" json:"totalWinners"`
	TotalEntries int `bson:"totalEntries" json:"totalEntries"`
}

// WinnerRevealedPayload carries the details of a single reveal
type WinnerRevealedPayload struct {
	Position    int    `bson:"position" json:"position"`
	EntryNumber int    `bson:"entryNumber" json:"entryNumber"`
	DisplayName string `bson:"displayName" json:"displayName"`
	Message     string `bson:"message,omitempty" json:"message,omitempty"`
}

// CompletedPayload carries the closing summary of a drawing
type CompletedPayload struct {
	TotalWinners int    `bson:"totalWinners" json:"totalWinners"`
	Message      string `bson:"message,omitempty" json:"message,omitempty"`
}

// StreamEvent is one append-only audit record of a drawing. Exactly one
// payload field is set, matching Type. Sequence is monotonic per raffle and
// is the ordering contract live viewers rely on.
type StreamEvent struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID       primitive.ObjectID     `bson:"raffleId" json:"raffleId"`
	Sequence       int64                  `bson:"sequence" json:"sequence"`
	Type           StreamEventType        `bson:"type" json:"type"`
	Started        *StartedPayload        `bson:"started,omitempty" json:"started,omitempty"`
	WinnerRevealed *WinnerRevealedPayload `bson:"winnerRevealed,omitempty" json:"winnerRevealed,omitempty"`
	Completed      *CompletedPayload      `bson:"completed,omitempty" json:"completed,omitempty"`
	CreatedAt      time.Time              `bson:"createdAt" json:"createdAt"`
}
