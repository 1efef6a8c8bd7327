package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant represents a storefront customer who can enter raffles
type Participant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DisplayName   string             `bson:"displayName" json:"displayName"`
	Email         string             `bson:"email" json:"email"`
	EmailVerified bool               `bson:"emailVerified" json:"emailVerified"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AccountAgeDays returns the whole days elapsed since the account was created
func (p *Participant) AccountAgeDays(now time.Time) int {
	return int(now.Sub(p.CreatedAt).Hours() / 24)
}
