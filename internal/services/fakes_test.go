package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. They mirror the guarantees the Mongo
// implementations get from the database: atomic status transitions, atomic
// counters, and unique-index duplicate-key errors on winners.

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

type fakeRaffleRepo struct {
	mu      sync.Mutex
	raffles map[primitive.ObjectID]*models.Raffle
}

func newFakeRaffleRepo() *fakeRaffleRepo {
	return &fakeRaffleRepo{raffles: make(map[primitive.ObjectID]*models.Raffle)}
}

func (r *fakeRaffleRepo) Create(ctx context.Context, raffle *models.Raffle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.raffles {
		if existing.Slug == raffle.Slug {
			return duplicateKeyError()
		}
	}
	if raffle.ID.IsZero() {
		raffle.ID = primitive.NewObjectID()
	}
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = time.Now()
	cp := *raffle
	r.raffles[raffle.ID] = &cp
	return nil
}

func (r *fakeRaffleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raffle, ok := r.raffles[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *raffle
	return &cp, nil
}

func (r *fakeRaffleRepo) FindBySlug(ctx context.Context, slug string) (*models.Raffle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, raffle := range r.raffles {
		if raffle.Slug == slug {
			cp := *raffle
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRaffleRepo) FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raffles := make([]*models.Raffle, 0, len(r.raffles))
	for _, raffle := range r.raffles {
		cp := *raffle
		raffles = append(raffles, &cp)
	}
	return raffles, nil
}

func (r *fakeRaffleRepo) FindByStatus(ctx context.Context, status models.RaffleStatus) ([]*models.Raffle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raffles := make([]*models.Raffle, 0)
	for _, raffle := range r.raffles {
		if raffle.Status == status {
			cp := *raffle
			raffles = append(raffles, &cp)
		}
	}
	return raffles, nil
}

func (r *fakeRaffleRepo) Update(ctx context.Context, raffle *models.Raffle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.raffles[raffle.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	raffle.UpdatedAt = time.Now()
	cp := *raffle
	r.raffles[raffle.ID] = &cp
	return nil
}

func (r *fakeRaffleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.raffles, id)
	return nil
}

func (r *fakeRaffleRepo) TransitionStatus(ctx context.Context, id primitive.ObjectID, from, to models.RaffleStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raffle, ok := r.raffles[id]
	if !ok || raffle.Status != from {
		return false, nil
	}
	raffle.Status = to
	raffle.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeRaffleRepo) NextEntryNumber(ctx context.Context, id primitive.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raffle, ok := r.raffles[id]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	raffle.EntryCounter++
	return raffle.EntryCounter, nil
}

func (r *fakeRaffleRepo) SetDrawingOrder(ctx context.Context, id primitive.ObjectID, order []int, totalEntries int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	raffle, ok := r.raffles[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	raffle.DrawingOrder = append([]int(nil), order...)
	raffle.TotalEntries = totalEntries
	raffle.UpdatedAt = time.Now()
	return nil
}

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries []*models.Entry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{}
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.RaffleID == entry.RaffleID && e.EntryNumber == entry.EntryNumber {
			return duplicateKeyError()
		}
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.CreatedAt = time.Now()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeEntryRepo) FindConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]*models.Entry, 0)
	for _, e := range r.entries {
		if e.RaffleID == raffleID && e.Status == models.EntryStatusConfirmed {
			cp := *e
			entries = append(entries, &cp)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryNumber < entries[j].EntryNumber })
	return entries, nil
}

func (r *fakeEntryRepo) FindByRaffleAndNumber(ctx context.Context, raffleID primitive.ObjectID, entryNumber int) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.RaffleID == raffleID && e.EntryNumber == entryNumber {
			cp := *e
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeEntryRepo) CountConfirmedByRaffleAndParticipant(ctx context.Context, raffleID, participantID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, e := range r.entries {
		if e.RaffleID == raffleID && e.ParticipantID == participantID && e.Status == models.EntryStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (r *fakeEntryRepo) CountConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, e := range r.entries {
		if e.RaffleID == raffleID && e.Status == models.EntryStatusConfirmed {
			count++
		}
	}
	return count, nil
}

type fakeWinnerRepo struct {
	mu      sync.Mutex
	winners []*models.Winner
}

func newFakeWinnerRepo() *fakeWinnerRepo {
	return &fakeWinnerRepo{}
}

func (r *fakeWinnerRepo) Create(ctx context.Context, winner *models.Winner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.winners {
		if w.RaffleID == winner.RaffleID && (w.Position == winner.Position || w.EntryNumber == winner.EntryNumber) {
			return duplicateKeyError()
		}
	}
	if winner.ID.IsZero() {
		winner.ID = primitive.NewObjectID()
	}
	winner.CreatedAt = time.Now()
	cp := *winner
	r.winners = append(r.winners, &cp)
	return nil
}

func (r *fakeWinnerRepo) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	winners := make([]*models.Winner, 0)
	for _, w := range r.winners {
		if w.RaffleID == raffleID {
			cp := *w
			winners = append(winners, &cp)
		}
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].Position < winners[j].Position })
	return winners, nil
}

func (r *fakeWinnerRepo) FindByRaffleAndPosition(ctx context.Context, raffleID primitive.ObjectID, position int) (*models.Winner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.winners {
		if w.RaffleID == raffleID && w.Position == position {
			cp := *w
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeWinnerRepo) CountByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, w := range r.winners {
		if w.RaffleID == raffleID {
			count++
		}
	}
	return count, nil
}

func (r *fakeWinnerRepo) MarkNotified(ctx context.Context, id primitive.ObjectID, notifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.winners {
		if w.ID == id {
			w.NotifiedAt = notifiedAt
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type fakeStreamEventRepo struct {
	mu        sync.Mutex
	events    []*models.StreamEvent
	sequences map[primitive.ObjectID]int64
}

func newFakeStreamEventRepo() *fakeStreamEventRepo {
	return &fakeStreamEventRepo{sequences: make(map[primitive.ObjectID]int64)}
}

func (r *fakeStreamEventRepo) Append(ctx context.Context, event *models.StreamEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[event.RaffleID]++
	event.Sequence = r.sequences[event.RaffleID]
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeStreamEventRepo) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID, afterSequence int64) ([]*models.StreamEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]*models.StreamEvent, 0)
	for _, e := range r.events {
		if e.RaffleID == raffleID && e.Sequence > afterSequence {
			cp := *e
			events = append(events, &cp)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Sequence < events[j].Sequence })
	return events, nil
}

func (r *fakeStreamEventRepo) HasEventOfType(ctx context.Context, raffleID primitive.ObjectID, eventType models.StreamEventType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.RaffleID == raffleID && e.Type == eventType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeStreamEventRepo) HasWinnerRevealed(ctx context.Context, raffleID primitive.ObjectID, position int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.RaffleID == raffleID && e.Type == models.StreamEventWinnerRevealed && e.WinnerRevealed != nil && e.WinnerRevealed.Position == position {
			return true, nil
		}
	}
	return false, nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[primitive.ObjectID]*models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[primitive.ObjectID]*models.Participant)}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if participant.ID.IsZero() {
		participant.ID = primitive.NewObjectID()
	}
	cp := *participant
	r.participants[participant.ID] = &cp
	return nil
}

func (r *fakeParticipantRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	participant, ok := r.participants[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *participant
	return &cp, nil
}

func (r *fakeParticipantRepo) FindByEmail(ctx context.Context, email string) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeParticipantRepo) Update(ctx context.Context, participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *participant
	r.participants[participant.ID] = &cp
	return nil
}

type fakeOrderRepo struct {
	mu              sync.Mutex
	completedCounts map[primitive.ObjectID]int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{completedCounts: make(map[primitive.ObjectID]int64)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.Status == models.OrderStatusCompleted {
		r.completedCounts[order.ParticipantID]++
	}
	return nil
}

func (r *fakeOrderRepo) CountCompletedByParticipant(ctx context.Context, participantID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completedCounts[participantID], nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	cp := *notification
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *fakeNotificationRepo) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notifications := make([]*models.Notification, 0)
	for _, n := range r.notifications {
		if n.RaffleID == raffleID {
			cp := *n
			notifications = append(notifications, &cp)
		}
	}
	return notifications, nil
}

type fakeAdminUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.AdminUser
}

func newFakeAdminUserRepo() *fakeAdminUserRepo {
	return &fakeAdminUserRepo{users: make(map[string]*models.AdminUser)}
}

func (r *fakeAdminUserRepo) Create(ctx context.Context, user *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *fakeAdminUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *user
	return &cp, nil
}

func (r *fakeAdminUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// stubNotifier records NotifyWinner calls and optionally fails them.
type stubNotifier struct {
	mu      sync.Mutex
	calls   []stubNotifyCall
	sendErr error
}

type stubNotifyCall struct {
	RaffleID primitive.ObjectID
	Position int
	Email    string
}

func (n *stubNotifier) NotifyWinner(ctx context.Context, raffle *models.Raffle, winner *models.Winner, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, stubNotifyCall{RaffleID: raffle.ID, Position: winner.Position, Email: email})
	return n.sendErr
}

func (n *stubNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
