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

// Compile-time check to ensure RaffleServiceImpl implements RaffleService
var _ RaffleService = (*RaffleServiceImpl)(nil)

// RaffleServiceImpl implements raffle lifecycle management and reads
type RaffleServiceImpl struct {
	raffleRepo repositories.RaffleRepository
	winnerRepo repositories.WinnerRepository
	eventRepo  repositories.StreamEventRepository
}

// NewRaffleService creates a new RaffleServiceImpl
func NewRaffleService(
	raffleRepo repositories.RaffleRepository,
	winnerRepo repositories.WinnerRepository,
	eventRepo repositories.StreamEventRepository,
) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		raffleRepo: raffleRepo,
		winnerRepo: winnerRepo,
		eventRepo:  eventRepo,
	}
}

// CreateRaffle creates a new raffle in UPCOMING status. The slug is the
// public identity of the raffle and can never be reused or changed.
func (s *RaffleServiceImpl) CreateRaffle(ctx context.Context, raffle *models.Raffle) error {
	if raffle.Slug == "" {
		return errors.New("slug is required")
	}
	if raffle.TotalWinners < 1 {
		return errors.New("totalWinners must be at least 1")
	}
	if !raffle.RegistrationEndsAt.After(raffle.RegistrationStartsAt) {
		return errors.New("registration must end after it starts")
	}

	existing, err := s.raffleRepo.FindBySlug(ctx, raffle.Slug)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if existing != nil {
		return ErrSlugTaken
	}

	raffle.Status = models.RaffleStatusUpcoming
	raffle.EntryCounter = 0
	if raffle.MaxEntriesPerUser < 1 {
		raffle.MaxEntriesPerUser = 1
	}
	if raffle.PurchaseWindowHours < 1 {
		raffle.PurchaseWindowHours = 48
	}

	if err := s.raffleRepo.Create(ctx, raffle); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create raffle: %w", err)
	}

	slog.Info("Raffle created", "raffleId", raffle.ID, "slug", raffle.Slug)
	return nil
}

// UpdateSchedule changes the registration window and draw date. The schedule
// freezes as soon as registration opens; only the config stays editable.
func (s *RaffleServiceImpl) UpdateSchedule(ctx context.Context, id primitive.ObjectID, startsAt, endsAt, drawDate time.Time) (*models.Raffle, error) {
	raffle, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raffle.Status != models.RaffleStatusUpcoming {
		return nil, fmt.Errorf("%w: status is %s, want UPCOMING", ErrInvalidStatus, raffle.Status)
	}
	if !endsAt.After(startsAt) {
		return nil, errors.New("registration must end after it starts")
	}

	raffle.RegistrationStartsAt = startsAt
	raffle.RegistrationEndsAt = endsAt
	raffle.DrawDate = drawDate
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to update raffle: %w", err)
	}
	return raffle, nil
}

// UpdateConfig changes winner count, entry limits and eligibility rules.
// Allowed until the raffle closes; the winner count drives the selection, so
// it is frozen once a drawing can begin.
func (s *RaffleServiceImpl) UpdateConfig(ctx context.Context, id primitive.ObjectID, update RaffleConfigUpdate) (*models.Raffle, error) {
	raffle, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raffle.Status != models.RaffleStatusUpcoming && raffle.Status != models.RaffleStatusOpen {
		return nil, fmt.Errorf("%w: status is %s, want UPCOMING or OPEN", ErrInvalidStatus, raffle.Status)
	}

	raffle.TotalWinners = update.TotalWinners
	raffle.MaxEntriesPerUser = update.MaxEntriesPerUser
	raffle.PurchaseWindowHours = update.PurchaseWindowHours
	raffle.RequireEmailVerification = update.RequireEmailVerification
	raffle.RequirePreviousPurchase = update.RequirePreviousPurchase
	raffle.MinAccountAgeDays = update.MinAccountAgeDays
	if err := s.raffleRepo.Update(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to update raffle: %w", err)
	}

	slog.Info("Raffle config updated", "raffleId", raffle.ID, "totalWinners", update.TotalWinners)
	return raffle, nil
}

// OpenRegistration moves an upcoming raffle to OPEN. Without force, the
// registration window must have started.
func (s *RaffleServiceImpl) OpenRegistration(ctx context.Context, id primitive.ObjectID, force bool) (*models.Raffle, error) {
	raffle, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raffle.Status != models.RaffleStatusUpcoming {
		return nil, fmt.Errorf("%w: status is %s, want UPCOMING", ErrInvalidStatus, raffle.Status)
	}
	if !force && time.Now().Before(raffle.RegistrationStartsAt) {
		return nil, fmt.Errorf("registration window has not started (starts %s)", raffle.RegistrationStartsAt.Format(time.RFC3339))
	}

	moved, err := s.raffleRepo.TransitionStatus(ctx, id, models.RaffleStatusUpcoming, models.RaffleStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to open registration: %w", err)
	}
	if !moved {
		return nil, fmt.Errorf("%w: raffle changed status concurrently", ErrInvalidStatus)
	}

	raffle.Status = models.RaffleStatusOpen
	slog.Info("Registration opened", "raffleId", raffle.ID, "slug", raffle.Slug, "forced", force)
	return raffle, nil
}

// CloseRegistration moves an open raffle to CLOSED, making it eligible for a
// drawing. No new entries are accepted afterwards.
func (s *RaffleServiceImpl) CloseRegistration(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	raffle, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raffle.Status != models.RaffleStatusOpen {
		return nil, fmt.Errorf("%w: status is %s, want OPEN", ErrInvalidStatus, raffle.Status)
	}

	moved, err := s.raffleRepo.TransitionStatus(ctx, id, models.RaffleStatusOpen, models.RaffleStatusClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to close registration: %w", err)
	}
	if !moved {
		return nil, fmt.Errorf("%w: raffle changed status concurrently", ErrInvalidStatus)
	}

	raffle.Status = models.RaffleStatusClosed
	slog.Info("Registration closed", "raffleId", raffle.ID, "slug", raffle.Slug)
	return raffle, nil
}

// GetRaffleByID returns a raffle by its ID
func (s *RaffleServiceImpl) GetRaffleByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	return s.findByID(ctx, id)
}

// GetRaffleBySlug returns a raffle by its public slug
func (s *RaffleServiceImpl) GetRaffleBySlug(ctx context.Context, slug string) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	return raffle, nil
}

// GetRaffles returns a page of raffles
func (s *RaffleServiceImpl) GetRaffles(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.raffleRepo.FindAll(ctx, page, limit)
}

// GetWinnersByRaffleID returns the revealed winners ordered by position
func (s *RaffleServiceImpl) GetWinnersByRaffleID(ctx context.Context, id primitive.ObjectID) ([]*models.Winner, error) {
	if _, err := s.findByID(ctx, id); err != nil {
		return nil, err
	}
	return s.winnerRepo.FindByRaffleID(ctx, id)
}

// GetStream returns the drawing stream events after the given sequence.
// Pass 0 to read from the beginning; clients poll with their last seen
// sequence to tail the drawing.
func (s *RaffleServiceImpl) GetStream(ctx context.Context, id primitive.ObjectID, afterSequence int64) ([]*models.StreamEvent, error) {
	if _, err := s.findByID(ctx, id); err != nil {
		return nil, err
	}
	return s.eventRepo.FindByRaffleID(ctx, id, afterSequence)
}

func (s *RaffleServiceImpl) findByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	raffle, err := s.raffleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	return raffle, nil
}
