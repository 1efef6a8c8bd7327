package mongodb

import (
	"context"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
	"github.com/hypeshop/raffle-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntryRepository implements the repositories.EntryRepository interface
type EntryRepository struct {
	collection *mongo.Collection
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *mongo.Database) repositories.EntryRepository {
	return &EntryRepository{
		collection: db.Collection("entries"),
	}
}

// Create creates a new entry
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindConfirmedByRaffleID finds all confirmed entries of a raffle ordered by
// entry number ascending. This is the only read the drawing engine performs.
func (r *EntryRepository) FindConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Entry, error) {
	filter := bson.M{"raffleId": raffleID, "status": models.EntryStatusConfirmed}
	opts := options.Find().SetSort(bson.M{"entryNumber": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.Entry{}
	}
	return entries, nil
}

// FindByRaffleAndNumber finds an entry by raffle and entry number
func (r *EntryRepository) FindByRaffleAndNumber(ctx context.Context, raffleID primitive.ObjectID, entryNumber int) (*models.Entry, error) {
	var entry models.Entry
	err := r.collection.FindOne(ctx, bson.M{"raffleId": raffleID, "entryNumber": entryNumber}).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CountConfirmedByRaffleAndParticipant counts a participant's confirmed entries in a raffle
func (r *EntryRepository) CountConfirmedByRaffleAndParticipant(ctx context.Context, raffleID, participantID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"raffleId":      raffleID,
		"participantId": participantID,
		"status":        models.EntryStatusConfirmed,
	})
}

// CountConfirmedByRaffleID counts all confirmed entries of a raffle
func (r *EntryRepository) CountConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"raffleId": raffleID,
		"status":   models.EntryStatusConfirmed,
	})
}
