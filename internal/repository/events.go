package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tixify/tixify-server/internal/model"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection("events")}
}

// FindAll returns all events.
func (r *EventRepository) FindAll(ctx context.Context) ([]model.Event, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []model.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// FindByID returns a single event or ErrNotFound.
func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	var e model.Event
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &e, nil
}

// Insert stores a new event.
func (r *EventRepository) Insert(ctx context.Context, e model.Event) (*model.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return insertResult(res), nil
}

// Update merges the given fields into the event document ($set). Fields
// absent from the map are left untouched.
func (r *EventRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.UpdateResult, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &model.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// DeleteByID removes the event with the given id.
func (r *EventRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}
	return &model.DeleteResult{DeletedCount: res.DeletedCount}, nil
}
