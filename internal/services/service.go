package services

import (
	"context"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawingState describes where a drawing session stands. It is derived from
// persisted rows, never from transient memory, so a page refresh or operator
// handoff can resume mid-drawing.
type DrawingState struct {
	RaffleID      primitive.ObjectID  `json:"raffleId"`
	Status        models.RaffleStatus `json:"status"`
	TotalEntries  int                 `json:"totalEntries"`
	TotalWinners  int                 `json:"totalWinners"` // effective count after the degenerate-pool cap
	RevealedCount int                 `json:"revealedCount"`
	NextPosition  int                 `json:"nextPosition"` // 0 when every position is revealed
}

// DrawingService defines the operator-facing drawing engine. StartDrawing and
// RevealNext are the only two actions, both keyed by raffle identity alone.
type DrawingService interface {
	StartDrawing(ctx context.Context, raffleID primitive.ObjectID) (*DrawingState, error)
	RevealNext(ctx context.Context, raffleID primitive.ObjectID) (*models.Winner, error)
}

// RaffleService defines raffle lifecycle and read operations
type RaffleService interface {
	CreateRaffle(ctx context.Context, raffle *models.Raffle) error
	UpdateSchedule(ctx context.Context, id primitive.ObjectID, startsAt, endsAt, drawDate time.Time) (*models.Raffle, error)
	UpdateConfig(ctx context.Context, id primitive.ObjectID, update RaffleConfigUpdate) (*models.Raffle, error)
	OpenRegistration(ctx context.Context, id primitive.ObjectID, force bool) (*models.Raffle, error)
	CloseRegistration(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)
	GetRaffleByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)
	GetRaffleBySlug(ctx context.Context, slug string) (*models.Raffle, error)
	GetRaffles(ctx context.Context, page, limit int) ([]*models.Raffle, error)
	GetWinnersByRaffleID(ctx context.Context, id primitive.ObjectID) ([]*models.Winner, error)
	GetStream(ctx context.Context, id primitive.ObjectID, afterSequence int64) ([]*models.StreamEvent, error)
}

// RaffleConfigUpdate carries the fields editable while a raffle is upcoming or open
type RaffleConfigUpdate struct {
	TotalWinners             int  `json:"totalWinners" binding:"required,min=1"`
	MaxEntriesPerUser        int  `json:"maxEntriesPerUser" binding:"required,min=1"`
	PurchaseWindowHours      int  `json:"purchaseWindowHours" binding:"required,min=1"`
	RequireEmailVerification bool `json:"requireEmailVerification"`
	RequirePreviousPurchase  bool `json:"requirePreviousPurchase"`
	MinAccountAgeDays        int  `json:"minAccountAgeDays" binding:"min=0"`
}

// EntryService defines entry registration and eligibility checks
type EntryService interface {
	RegisterEntry(ctx context.Context, raffleID, participantID primitive.ObjectID) (*models.Entry, error)
	CheckEligibility(ctx context.Context, raffleID, participantID primitive.ObjectID) (*EligibilityResult, error)
}

// NotificationService informs a winner of their win and purchase deadline.
// Implementations must be safe to call best-effort: any failure is returned
// for logging but must leave no side effect beyond the notification record.
type NotificationService interface {
	NotifyWinner(ctx context.Context, raffle *models.Raffle, winner *models.Winner, email string) error
}

// AuthService defines admin authentication
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}
