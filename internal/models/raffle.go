package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleStatus represents the lifecycle status of a raffle
type RaffleStatus string

const (
	RaffleStatusUpcoming RaffleStatus = "UPCOMING"
	RaffleStatusOpen     RaffleStatus = "OPEN"
	RaffleStatusClosed   RaffleStatus = "CLOSED"
	RaffleStatusDrawing  RaffleStatus = "DRAWING"
	RaffleStatusDrawn    RaffleStatus = "DRAWN"
)

// ProductRef identifies the product being raffled
type ProductRef struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
}

// Raffle represents a raffle and its drawing configuration
type Raffle struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug                     string             `bson:"slug" json:"slug"` // immutable once created
	Title                    string             `bson:"title" json:"title"`
	Product                  ProductRef         `bson:"product" json:"product"`
	RegistrationStartsAt     time.Time          `bson:"registrationStartsAt" json:"registrationStartsAt"`
	RegistrationEndsAt       time.Time          `bson:"registrationEndsAt" json:"registrationEndsAt"`
	DrawDate                 time.Time          `bson:"drawDate" json:"drawDate"`
	TotalWinners             int                `bson:"totalWinners" json:"totalWinners"`
	MaxEntriesPerUser        int                `bson:"maxEntriesPerUser" json:"maxEntriesPerUser"`
	PurchaseWindowHours      int                `bson:"purchaseWindowHours" json:"purchaseWindowHours"`
	RequireEmailVerification bool               `bson:"requireEmailVerification" json:"requireEmailVerification"`
	RequirePreviousPurchase  bool               `bson:"requirePreviousPurchase" json:"requirePreviousPurchase"`
	MinAccountAgeDays        int                `bson:"minAccountAgeDays" json:"minAccountAgeDays"`
	Status                   RaffleStatus       `bson:"status" json:"status"`
	EntryCounter             int                `bson:"entryCounter" json:"-"` // last assigned entry number
	TotalEntries             int                `bson:"totalEntries,omitempty" json:"totalEntries,omitempty"` // snapshot taken when the drawing starts
	DrawingOrder             []int              `bson:"drawingOrder,omitempty" json:"-"` // entry numbers in reveal order, set at selection time
	CreatedAt                time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time          `bson:"updatedAt" json:"updatedAt"`
}
