package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
	"github.com/hypeshop/raffle-backend/internal/repositories"
	"github.com/hypeshop/raffle-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawingServiceImpl implements DrawingService
var _ DrawingService = (*DrawingServiceImpl)(nil)

// DrawingServiceImpl drives a raffle through its drawing: atomic claim of the
// raffle, a one-time snapshot of confirmed entries, an unbiased shuffle, and
// operator-paced reveals persisted as winner rows and stream events. All
// session state is derived from persisted rows, so the drawing survives a
// console refresh or an operator handoff.
type DrawingServiceImpl struct {
	raffleRepo      repositories.RaffleRepository
	entryRepo       repositories.EntryRepository
	winnerRepo      repositories.WinnerRepository
	eventRepo       repositories.StreamEventRepository
	participantRepo repositories.ParticipantRepository
	notifier        NotificationService
}

// NewDrawingService creates a new DrawingServiceImpl
func NewDrawingService(
	raffleRepo repositories.RaffleRepository,
	entryRepo repositories.EntryRepository,
	winnerRepo repositories.WinnerRepository,
	eventRepo repositories.StreamEventRepository,
	participantRepo repositories.ParticipantRepository,
	notifier NotificationService,
) *DrawingServiceImpl {
	return &DrawingServiceImpl{
		raffleRepo:      raffleRepo,
		entryRepo:       entryRepo,
		winnerRepo:      winnerRepo,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		notifier:        notifier,
	}
}

// StartDrawing starts the drawing for a closed raffle, or resumes one already
// in DRAWING status. A fresh start claims the raffle with an atomic
// conditional status update, so two operators racing on the same raffle
// cannot both win the claim.
func (s *DrawingServiceImpl) StartDrawing(ctx context.Context, raffleID primitive.ObjectID) (*DrawingState, error) {
	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}

	switch raffle.Status {
	case models.RaffleStatusClosed:
		return s.startFresh(ctx, raffle)
	case models.RaffleStatusDrawing:
		return s.resume(ctx, raffle)
	default:
		return nil, fmt.Errorf("%w: status is %s, want CLOSED", ErrInvalidStatus, raffle.Status)
	}
}

// startFresh claims the raffle, snapshots entries, selects the winners and
// emits the started event. The snapshot is taken exactly once; reveals never
// re-query the entry pool.
func (s *DrawingServiceImpl) startFresh(ctx context.Context, raffle *models.Raffle) (*DrawingState, error) {
	// 1. Snapshot the confirmed entries before mutating anything, so an empty
	// pool refuses with no state change.
	entries, err := s.entryRepo.FindConfirmedByRaffleID(ctx, raffle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoConfirmedEntries
	}

	// 2. Atomically claim the raffle for drawing.
	claimed, err := s.raffleRepo.TransitionStatus(ctx, raffle.ID, models.RaffleStatusClosed, models.RaffleStatusDrawing)
	if err != nil {
		return nil, fmt.Errorf("failed to claim raffle for drawing: %w", err)
	}
	if !claimed {
		slog.Warn("Lost the drawing claim", "raffleId", raffle.ID)
		return nil, ErrDrawingInProgress
	}

	// 3. Select the winners and persist the reveal order so the session is
	// resumable from storage alone.
	order := selectWinners(entries, raffle.TotalWinners)
	if len(order) < raffle.TotalWinners {
		slog.Warn("Winner count capped to entry pool size",
			"raffleId", raffle.ID, "totalWinners", raffle.TotalWinners, "confirmedEntries", len(entries))
	}
	if err := s.raffleRepo.SetDrawingOrder(ctx, raffle.ID, order, len(entries)); err != nil {
		return nil, fmt.Errorf("failed to persist winner selection: %w", err)
	}

	// 4. Announce the drawing.
	event := &models.StreamEvent{
		RaffleID: raffle.ID,
		Type:     models.StreamEventStarted,
		Started: &models.StartedPayload{
			TotalWinners: len(order),
			TotalEntries: len(entries),
		},
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to emit started event: %w", err)
	}

	slog.Info("Drawing started", "raffleId", raffle.ID, "totalEntries", len(entries), "totalWinners", len(order))
	return &DrawingState{
		RaffleID:      raffle.ID,
		Status:        models.RaffleStatusDrawing,
		TotalEntries:  len(entries),
		TotalWinners:  len(order),
		RevealedCount: 0,
		NextPosition:  1,
	}, nil
}

// resume reconstructs the session from persisted winner rows. If the selection
// itself is missing (failure between claim and selection), it is rebuilt with
// the already-revealed winners pinned at their positions.
func (s *DrawingServiceImpl) resume(ctx context.Context, raffle *models.Raffle) (*DrawingState, error) {
	winners, err := s.winnerRepo.FindByRaffleID(ctx, raffle.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load winners: %w", err)
	}

	order := raffle.DrawingOrder
	totalEntries := raffle.TotalEntries
	if len(order) == 0 {
		order, totalEntries, err = s.rebuildSelection(ctx, raffle, winners)
		if err != nil {
			return nil, err
		}
	}

	// The started event may be missing on the same failure path.
	hasStarted, err := s.eventRepo.HasEventOfType(ctx, raffle.ID, models.StreamEventStarted)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect event stream: %w", err)
	}
	if !hasStarted {
		event := &models.StreamEvent{
			RaffleID: raffle.ID,
			Type:     models.StreamEventStarted,
			Started: &models.StartedPayload{
				TotalWinners: len(order),
				TotalEntries: totalEntries,
			},
		}
		if err := s.eventRepo.Append(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to emit started event: %w", err)
		}
	}

	status := models.RaffleStatusDrawing
	nextPosition := len(winners) + 1
	if len(winners) >= len(order) {
		// Crash landed between the last reveal and completion.
		if err := s.complete(ctx, raffle, len(order)); err != nil {
			return nil, err
		}
		status = models.RaffleStatusDrawn
		nextPosition = 0
	}

	slog.Info("Drawing resumed", "raffleId", raffle.ID, "revealed", len(winners), "totalWinners", len(order))
	return &DrawingState{
		RaffleID:      raffle.ID,
		Status:        status,
		TotalEntries:  totalEntries,
		TotalWinners:  len(order),
		RevealedCount: len(winners),
		NextPosition:  nextPosition,
	}, nil
}

// rebuildSelection re-runs the selection for a raffle stuck in DRAWING with no
// persisted order. Already-revealed winners keep their positions as the prefix
// of the rebuilt order.
func (s *DrawingServiceImpl) rebuildSelection(ctx context.Context, raffle *models.Raffle, winners []*models.Winner) ([]int, int, error) {
	entries, err := s.entryRepo.FindConfirmedByRaffleID(ctx, raffle.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load confirmed entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, 0, ErrNoConfirmedEntries
	}

	won := make(map[int]bool, len(winners))
	order := make([]int, 0, raffle.TotalWinners)
	for _, w := range winners { // ordered by position
		won[w.EntryNumber] = true
		order = append(order, w.EntryNumber)
	}

	remaining := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if !won[e.EntryNumber] {
			remaining = append(remaining, e)
		}
	}

	k := raffle.TotalWinners
	if k > len(entries) {
		k = len(entries)
	}
	for _, n := range selectWinners(remaining, k-len(order)) {
		order = append(order, n)
	}

	if err := s.raffleRepo.SetDrawingOrder(ctx, raffle.ID, order, len(entries)); err != nil {
		return nil, 0, fmt.Errorf("failed to persist winner selection: %w", err)
	}
	slog.Warn("Rebuilt missing winner selection", "raffleId", raffle.ID, "pinnedWinners", len(winners), "totalWinners", len(order))
	return order, len(entries), nil
}

// RevealNext reveals the winner at the next unrevealed position: it persists
// the winner row, notifies the participant best-effort, emits the
// winner_revealed event, and on the final position completes the drawing.
// The step is idempotent per position; a retry after a partial failure
// repairs the missing pieces instead of corrupting committed ones.
func (s *DrawingServiceImpl) RevealNext(ctx context.Context, raffleID primitive.ObjectID) (*models.Winner, error) {
	raffle, err := s.raffleRepo.FindByID(ctx, raffleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRaffleNotFound
		}
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if raffle.Status == models.RaffleStatusDrawn {
		return nil, ErrAllRevealed
	}
	if raffle.Status != models.RaffleStatusDrawing {
		return nil, fmt.Errorf("%w: status is %s, want DRAWING", ErrInvalidStatus, raffle.Status)
	}
	if len(raffle.DrawingOrder) == 0 {
		return nil, ErrSelectionMissing
	}

	// 1. Derive the reveal cursor from persisted winner rows.
	winners, err := s.winnerRepo.FindByRaffleID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load winners: %w", err)
	}
	total := len(raffle.DrawingOrder)
	if len(winners) >= total {
		if err := s.complete(ctx, raffle, total); err != nil {
			return nil, err
		}
		return nil, ErrAllRevealed
	}

	position := len(winners) + 1
	entryNumber := raffle.DrawingOrder[len(winners)]

	// 2. Resolve the winning entry and participant.
	entry, err := s.entryRepo.FindByRaffleAndNumber(ctx, raffleID, entryNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry %d: %w", entryNumber, err)
	}
	participant, err := s.participantRepo.FindByID(ctx, entry.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	// 3. Persist the winner row. The unique indexes on (raffle, position) and
	// (raffle, entry) turn a retried or raced reveal into a duplicate-key
	// error, which we repair by adopting the already-persisted row.
	now := time.Now()
	winner := &models.Winner{
		RaffleID:         raffleID,
		EntryID:          entry.ID,
		EntryNumber:      entry.EntryNumber,
		ParticipantID:    participant.ID,
		DisplayName:      participant.DisplayName,
		Position:         position,
		RevealedAt:       now,
		PurchaseDeadline: now.Add(time.Duration(raffle.PurchaseWindowHours) * time.Hour),
	}
	fresh := true
	if err := s.winnerRepo.Create(ctx, winner); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to record winner at position %d: %w", position, err)
		}
		existing, findErr := s.winnerRepo.FindByRaffleAndPosition(ctx, raffleID, position)
		if findErr != nil {
			return nil, fmt.Errorf("failed to record winner at position %d: %w", position, err)
		}
		winner = existing
		fresh = false
		slog.Info("Reveal retried, adopting persisted winner", "raffleId", raffleID, "position", position)
	}

	// 4. Notify the winner. Failure is logged and swallowed; it never blocks
	// the reveal.
	if fresh {
		if err := s.notifier.NotifyWinner(ctx, raffle, winner, participant.Email); err != nil {
			slog.Warn("Winner notification failed",
				"raffleId", raffleID, "position", position, "email", utils.MaskEmail(participant.Email), "error", err)
		} else if err := s.winnerRepo.MarkNotified(ctx, winner.ID, time.Now()); err != nil {
			slog.Warn("Failed to record notification time", "raffleId", raffleID, "winnerId", winner.ID, "error", err)
		}
	}

	// 5. Emit the winner_revealed event, unless a prior partial failure
	// already did.
	emitted, err := s.eventRepo.HasWinnerRevealed(ctx, raffleID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect event stream: %w", err)
	}
	if !emitted {
		event := &models.StreamEvent{
			RaffleID: raffleID,
			Type:     models.StreamEventWinnerRevealed,
			WinnerRevealed: &models.WinnerRevealedPayload{
				Position:    position,
				EntryNumber: winner.EntryNumber,
				DisplayName: winner.DisplayName,
				Message:     fmt.Sprintf("%s wins position #%d with entry #%d", winner.DisplayName, position, winner.EntryNumber),
			},
		}
		if err := s.eventRepo.Append(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to emit winner_revealed event: %w", err)
		}
	}

	slog.Info("Winner revealed", "raffleId", raffleID, "position", position, "entryNumber", winner.EntryNumber)

	// 6. Complete the drawing after the final position.
	if position == total {
		if err := s.complete(ctx, raffle, total); err != nil {
			return nil, err
		}
	}

	return winner, nil
}

// complete flips the raffle to DRAWN and emits the completed event. The
// conditional status flip guarantees exactly one completed event per drawing.
func (s *DrawingServiceImpl) complete(ctx context.Context, raffle *models.Raffle, totalWinners int) error {
	flipped, err := s.raffleRepo.TransitionStatus(ctx, raffle.ID, models.RaffleStatusDrawing, models.RaffleStatusDrawn)
	if err != nil {
		return fmt.Errorf("failed to mark raffle drawn: %w", err)
	}
	if !flipped {
		// Another call already completed the drawing.
		return nil
	}

	event := &models.StreamEvent{
		RaffleID: raffle.ID,
		Type:     models.StreamEventCompleted,
		Completed: &models.CompletedPayload{
			TotalWinners: totalWinners,
			Message:      fmt.Sprintf("Drawing complete, %d winners selected", totalWinners),
		},
	}
	if err := s.eventRepo.Append(ctx, event); err != nil {
		return fmt.Errorf("failed to emit completed event: %w", err)
	}

	slog.Info("Drawing completed", "raffleId", raffle.ID, "totalWinners", totalWinners)
	return nil
}

// selectWinners picks up to totalWinners entries by uniform Fisher–Yates
// shuffle and returns their entry numbers in reveal order. A uniform shuffle
// is required for fairness: every permutation of the pool is equally likely.
func selectWinners(entries []*models.Entry, totalWinners int) []int {
	if totalWinners <= 0 || len(entries) == 0 {
		return []int{}
	}

	pool := make([]*models.Entry, len(entries))
	copy(pool, entries)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	k := totalWinners
	if k > len(pool) {
		k = len(pool)
	}
	order := make([]int, k)
	for i := 0; i < k; i++ {
		order[i] = pool[i].EntryNumber
	}
	return order
}
