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

// WinnerRepository implements the repositories.WinnerRepository interface.
// Uniqueness of (raffleId, position) and (raffleId, entryNumber) is enforced
// by the indexes created in pkg/mongodb; duplicate inserts surface as
// mongo duplicate-key errors.
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) repositories.WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// Create creates a new winner
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	winner.CreatedAt = time.Now()
	winner.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, winner)
	if err != nil {
		return err
	}
	winner.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByRaffleID finds winners of a raffle ordered by position ascending
func (r *WinnerRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error) {
	opts := options.Find().SetSort(bson.M{"position": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"raffleId": raffleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	if winners == nil {
		winners = []*models.Winner{}
	}
	return winners, nil
}

// FindByRaffleAndPosition finds the winner at a given position
func (r *WinnerRepository) FindByRaffleAndPosition(ctx context.Context, raffleID primitive.ObjectID, position int) (*models.Winner, error) {
	var winner models.Winner
	err := r.collection.FindOne(ctx, bson.M{"raffleId": raffleID, "position": position}).Decode(&winner)
	if err != nil {
		return nil, err
	}
	return &winner, nil
}

// CountByRaffleID counts the winners of a raffle
func (r *WinnerRepository) CountByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"raffleId": raffleID})
}

// MarkNotified records the time a winner notification was sent
func (r *WinnerRepository) MarkNotified(ctx context.Context, id primitive.ObjectID, notifiedAt time.Time) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"notifiedAt": notifiedAt, "updatedAt": time.Now()}},
	)
	return err
}
