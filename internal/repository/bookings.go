package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tixify/tixify-server/internal/model"
)

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	col *mongo.Collection
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

// FindByEvent returns all bookings referencing the given event.
func (r *BookingRepository) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]model.Booking, error) {
	cur, err := r.col.Find(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return nil, fmt.Errorf("list bookings by event: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []model.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// FindByEmail returns all bookings owned by the given email.
func (r *BookingRepository) FindByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	cur, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("list bookings by email: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []model.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// Insert stores a new booking.
func (r *BookingRepository) Insert(ctx context.Context, b model.Booking) (*model.InsertResult, error) {
	res, err := r.col.InsertOne(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return insertResult(res), nil
}

// DeleteByID removes the booking with the given id. A missing id yields
// a zero-count result, not an error.
func (r *BookingRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("delete booking: %w", err)
	}
	return &model.DeleteResult{DeletedCount: res.DeletedCount}, nil
}
