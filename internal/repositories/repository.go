package repositories

import (
	"context"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleRepository defines the interface for raffle data operations
type RaffleRepository interface {
	Create(ctx context.Context, raffle *models.Raffle) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)
	FindBySlug(ctx context.Context, slug string) (*models.Raffle, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error)
	FindByStatus(ctx context.Context, status models.RaffleStatus) ([]*models.Raffle, error)
	Update(ctx context.Context, raffle *models.Raffle) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// TransitionStatus atomically moves a raffle from one status to another.
	// Returns false when the raffle was not in the expected status, which is
	// how concurrent drawing starts lose the claim.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.RaffleStatus) (bool, error)
	// NextEntryNumber atomically increments and returns the raffle's entry counter.
	NextEntryNumber(ctx context.Context, id primitive.ObjectID) (int, error)
	// SetDrawingOrder persists the selected winner order and the entry snapshot size.
	SetDrawingOrder(ctx context.Context, id primitive.ObjectID, order []int, totalEntries int) error
}

// EntryRepository defines the interface for entry data operations
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	FindConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Entry, error)
	FindByRaffleAndNumber(ctx context.Context, raffleID primitive.ObjectID, entryNumber int) (*models.Entry, error)
	CountConfirmedByRaffleAndParticipant(ctx context.Context, raffleID, participantID primitive.ObjectID) (int64, error)
	CountConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error)
}

// WinnerRepository defines the interface for winner data operations
type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error)
	FindByRaffleAndPosition(ctx context.Context, raffleID primitive.ObjectID, position int) (*models.Winner, error)
	CountByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error)
	MarkNotified(ctx context.Context, id primitive.ObjectID, notifiedAt time.Time) error
}

// StreamEventRepository defines the interface for drawing stream event operations.
// Events are append-only; Append assigns the per-raffle monotonic sequence.
type StreamEventRepository interface {
	Append(ctx context.Context, event *models.StreamEvent) error
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID, afterSequence int64) ([]*models.StreamEvent, error)
	HasEventOfType(ctx context.Context, raffleID primitive.ObjectID, eventType models.StreamEventType) (bool, error)
	HasWinnerRevealed(ctx context.Context, raffleID primitive.ObjectID, position int) (bool, error)
}

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error)
	FindByEmail(ctx context.Context, email string) (*models.Participant, error)
	Update(ctx context.Context, participant *models.Participant) error
}

// OrderRepository defines the interface for the order history reads the
// eligibility evaluator consumes
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	CountCompletedByParticipant(ctx context.Context, participantID primitive.ObjectID) (int64, error)
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Notification, error)
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}
