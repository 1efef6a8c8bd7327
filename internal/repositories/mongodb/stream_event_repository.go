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

// StreamEventRepository implements the repositories.StreamEventRepository
// interface. Sequences come from a per-raffle counter document so ordering
// survives clock skew between writers.
type StreamEventRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewStreamEventRepository creates a new StreamEventRepository
func NewStreamEventRepository(db *mongo.Database) repositories.StreamEventRepository {
	return &StreamEventRepository{
		collection: db.Collection("raffle_events"),
		counters:   db.Collection("raffle_event_counters"),
	}
}

type eventCounter struct {
	ID  primitive.ObjectID `bson:"_id"`
	Seq int64              `bson:"seq"`
}

// nextSequence atomically increments and returns the raffle's event sequence
func (r *StreamEventRepository) nextSequence(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter eventCounter
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": raffleID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// Append assigns the next sequence and inserts the event
func (r *StreamEventRepository) Append(ctx context.Context, event *models.StreamEvent) error {
	seq, err := r.nextSequence(ctx, event.RaffleID)
	if err != nil {
		return err
	}
	event.Sequence = seq
	event.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return err
	}
	event.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByRaffleID finds a raffle's events with sequence greater than
// afterSequence, ordered by sequence ascending. Pass 0 for the full stream.
func (r *StreamEventRepository) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID, afterSequence int64) ([]*models.StreamEvent, error) {
	filter := bson.M{"raffleId": raffleID}
	if afterSequence > 0 {
		filter["sequence"] = bson.M{"$gt": afterSequence}
	}
	opts := options.Find().SetSort(bson.M{"sequence": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.StreamEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.StreamEvent{}
	}
	return events, nil
}

// HasEventOfType reports whether a raffle already has an event of the given type
func (r *StreamEventRepository) HasEventOfType(ctx context.Context, raffleID primitive.ObjectID, eventType models.StreamEventType) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"raffleId": raffleID, "type": eventType})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasWinnerRevealed reports whether the reveal event for a position was already emitted
func (r *StreamEventRepository) HasWinnerRevealed(ctx context.Context, raffleID primitive.ObjectID, position int) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"raffleId":                raffleID,
		"type":                    models.StreamEventWinnerRevealed,
		"winnerRevealed.position": position,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
