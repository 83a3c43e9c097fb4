package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/model"
)

// BookingStore is the persistence surface the booking service needs. It
// is implemented by *repository.BookingRepository.
type BookingStore interface {
	FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]model.Booking, error)
	FindByEmail(ctx context.Context, email string) ([]model.Booking, error)
	Insert(ctx context.Context, b model.Booking) (*model.InsertResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error)
}

// BookingService orchestrates booking operations.
type BookingService struct {
	bookings BookingStore

	// enforceOwnership, when set, overrides the booking's email with the
	// caller's verified identity. Off by default: historically the email
	// field is taken from the request body as-is.
	enforceOwnership bool
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings BookingStore, enforceOwnership bool) *BookingService {
	return &BookingService{bookings: bookings, enforceOwnership: enforceOwnership}
}

// Create validates the request and stores a new booking. callerEmail is
// the verified identity of the requester; whether it overrides the
// body's email is a policy decision (see enforceOwnership).
func (s *BookingService) Create(ctx context.Context, callerEmail string, req model.CreateBookingRequest) (*model.InsertResult, error) {
	email := normalizeEmail(req.Email)
	if s.enforceOwnership {
		email = normalizeEmail(callerEmail)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	eventID, err := primitive.ObjectIDFromHex(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event_id is not a valid id", ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}

	booking := model.Booking{
		Email:     email,
		EventID:   eventID,
		Seats:     req.Seats,
		Quantity:  req.Quantity,
		Amount:    req.Amount,
		CreatedAt: time.Now().UTC(),
	}
	return s.bookings.Insert(ctx, booking)
}

// ListByEvent returns all bookings referencing the given event.
func (s *BookingService) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]model.Booking, error) {
	return s.bookings.FindByEvent(ctx, eventID)
}

// ListByOwner returns the bookings owned by the given email. The email
// always comes from the verified identity, never from a client
// parameter.
func (s *BookingService) ListByOwner(ctx context.Context, email string) ([]model.Booking, error) {
	return s.bookings.FindByEmail(ctx, normalizeEmail(email))
}

// Delete removes the booking with the given id. No ownership check is
// applied; any authenticated caller with a valid id may delete.
func (s *BookingService) Delete(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	return s.bookings.DeleteByID(ctx, id)
}
