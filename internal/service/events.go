package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/model"
)

// EventStore is the persistence surface the event service needs. It is
// implemented by *repository.EventRepository.
type EventStore interface {
	FindAll(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error)
	Insert(ctx context.Context, e model.Event) (*model.InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*model.UpdateResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error)
}

// EventService orchestrates event operations.
type EventService struct {
	events EventStore
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore) *EventService {
	return &EventService{events: events}
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.FindAll(ctx)
}

// Get returns a single event by id.
func (s *EventService) Get(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	return s.events.FindByID(ctx, id)
}

// Create validates the request and stores a new event.
func (s *EventService) Create(ctx context.Context, req model.CreateEventRequest) (*model.InsertResult, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("%w: event title is required", ErrValidation)
	}
	if req.TotalSeats < 0 {
		return nil, fmt.Errorf("%w: total_seats cannot be negative", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	event := model.Event{
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		Date:        req.Date,
		Price:       req.Price,
		TotalSeats:  req.TotalSeats,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	return s.events.Insert(ctx, event)
}

// Update merges the provided fields into an existing event. At least one
// field must be set.
func (s *EventService) Update(ctx context.Context, id primitive.ObjectID, req model.UpdateEventRequest) (*model.UpdateResult, error) {
	fields := bson.M{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: event title cannot be empty", ErrValidation)
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Venue != nil {
		fields["venue"] = *req.Venue
	}
	if req.Date != nil {
		fields["date"] = *req.Date
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		fields["price"] = *req.Price
	}
	if req.TotalSeats != nil {
		if *req.TotalSeats < 0 {
			return nil, fmt.Errorf("%w: total_seats cannot be negative", ErrValidation)
		}
		fields["total_seats"] = *req.TotalSeats
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	return s.events.Update(ctx, id, fields)
}

// Delete removes the event with the given id.
func (s *EventService) Delete(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	return s.events.DeleteByID(ctx, id)
}
