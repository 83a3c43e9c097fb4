// Package model defines the core domain types for the ticketing platform.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization level of a user. Every user starts at the
// default role; the only exposed mutation is promotion to admin.
type Role string

const (
	RoleDefault Role = ""
	RoleAdmin   Role = "Admin"
)

// User is a persisted identity record, keyed by email.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Photo     string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role      Role               `bson:"role,omitempty" json:"role,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// IsAdmin returns true when the user holds the elevated role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Event represents a bookable event. Only admins create or mutate events;
// anyone may read them.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Venue       string             `bson:"venue,omitempty" json:"venue,omitempty"`
	Date        time.Time          `bson:"date,omitempty" json:"date,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	TotalSeats  int                `bson:"total_seats,omitempty" json:"total_seats,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Booking ties a user (by email) to an event. The event reference is
// advisory: nothing checks transactionally that the event still exists.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	EventID   primitive.ObjectID `bson:"eventId" json:"event_id"`
	Seats     []string           `bson:"seats,omitempty" json:"seats,omitempty"`
	Quantity  int                `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Amount    float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Payment is an insert-only record of a completed payment. Metadata is
// passed through untouched; this layer never interprets it.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	EventID       primitive.ObjectID `bson:"eventId,omitempty" json:"event_id,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	TransactionID string             `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`
	Metadata      bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// ─── Request payloads ────────────────────────────────────────────────────────

// TokenRequest is the payload for POST /jwt.
type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CreateUserRequest is the payload for POST /users and POST /saveUser.
// Role is intentionally absent: registration never grants privilege.
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// CreateEventRequest is the payload for POST /events.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	Date        time.Time `json:"date,omitempty"`
	Price       float64   `json:"price,omitempty"`
	TotalSeats  int       `json:"total_seats,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// UpdateEventRequest is the payload for PUT /events/{id}. Nil fields are
// left untouched; the update is a merge ($set), not a document replace.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	TotalSeats  *int       `json:"total_seats,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
}

// CreateBookingRequest is the payload for POST /bookings.
type CreateBookingRequest struct {
	Email    string   `json:"email"`
	EventID  string   `json:"event_id"`
	Seats    []string `json:"seats,omitempty"`
	Quantity int      `json:"quantity,omitempty"`
	Amount   float64  `json:"amount,omitempty"`
}

// CreatePaymentRequest is the payload for POST /payments.
type CreatePaymentRequest struct {
	Email         string         `json:"email"`
	EventID       string         `json:"event_id,omitempty"`
	Amount        float64        `json:"amount"`
	TransactionID string         `json:"transaction_id,omitempty"`
	Status        string         `json:"status,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// ─── Response envelopes ──────────────────────────────────────────────────────

// InsertResult reports the id assigned by a successful insert.
type InsertResult struct {
	InsertedID string `json:"insertedId"`
}

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports how many documents a delete removed. Deleting an
// id that does not exist is a success with DeletedCount zero.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// AdminStatus is the response of GET /users/admin/{email}.
type AdminStatus struct {
	Admin bool `json:"admin"`
}

// MessageResponse carries informational outcomes, such as the idempotent
// "User already exists" registration result.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}
