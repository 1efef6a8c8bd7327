package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
	"github.com/hypeshop/raffle-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure EntryServiceImpl implements EntryService
var _ EntryService = (*EntryServiceImpl)(nil)

// EntryServiceImpl implements entry registration and eligibility checks
type EntryServiceImpl struct {
	raffleRepo      repositories.RaffleRepository
	entryRepo       repositories.EntryRepository
	participantRepo repositories.ParticipantRepository
	orderRepo       repositories.OrderRepository
}

// NewEntryService creates a new EntryServiceImpl
func NewEntryService(
	raffleRepo repositories.RaffleRepository,
	entryRepo repositories.EntryRepository,
	participantRepo repositories.ParticipantRepository,
	orderRepo repositories.OrderRepository,
) *EntryServiceImpl {
	return &EntryServiceImpl{
		raffleRepo:      raffleRepo,
		entryRepo:       entryRepo,
		participantRepo: participantRepo,
		orderRepo:       orderRepo,
	}
}

// RegisterEntry registers a participant into an open raffle. Eligibility is
// evaluated fresh at registration time, never cached, so a participant who
// verified their email a minute ago gets in. Entry numbers come from an
// atomic per-raffle counter, so concurrent registrations never collide.
func (s *EntryServiceImpl) RegisterEntry(ctx context.Context, raffleID, participantID primitive.ObjectID) (*models.Entry, error) {
	// 1. The raffle must be open and inside its registration window.
	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	now := time.Now()
	if raffle.Status != models.RaffleStatusOpen || now.After(raffle.RegistrationEndsAt) {
		return nil, ErrRegistrationClosed
	}

	// 2. Evaluate eligibility.
	participant, result, err := s.evaluate(ctx, raffle, participantID, now)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return nil, &NotEligibleError{Reasons: result.Reasons}
	}

	// 3. Enforce the per-participant entry cap.
	count, err := s.entryRepo.CountConfirmedByRaffleAndParticipant(ctx, raffleID, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	if count >= int64(raffle.MaxEntriesPerUser) {
		return nil, ErrEntryLimitReached
	}

	// 4. Claim the next entry number and persist the entry.
	entryNumber, err := s.raffleRepo.NextEntryNumber(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign entry number: %w", err)
	}
	entry := &models.Entry{
		RaffleID:      raffleID,
		ParticipantID: participant.ID,
		EntryNumber:   entryNumber,
		Status:        models.EntryStatusConfirmed,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	slog.Info("Entry registered", "raffleId", raffleID, "participantId", participantID, "entryNumber", entryNumber)
	return entry, nil
}

// CheckEligibility evaluates a participant against a raffle's requirements
// without registering. Page renders call this to show the participant why
// they cannot enter yet.
func (s *EntryServiceImpl) CheckEligibility(ctx context.Context, raffleID, participantID primitive.ObjectID) (*EligibilityResult, error) {
	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}

	_, result, err := s.evaluate(ctx, raffle, participantID, time.Now())
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *EntryServiceImpl) evaluate(ctx context.Context, raffle *models.Raffle, participantID primitive.ObjectID, now time.Time) (*models.Participant, *EligibilityResult, error) {
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrParticipantNotFound
		}
		return nil, nil, fmt.Errorf("failed to load participant: %w", err)
	}

	// Only hit the order history when the raffle actually requires it.
	var completedOrders int64
	if raffle.RequirePreviousPurchase {
		completedOrders, err = s.orderRepo.CountCompletedByParticipant(ctx, participantID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to count orders: %w", err)
		}
	}

	return participant, EvaluateEligibility(raffle, participant, completedOrders, now), nil
}
