package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/model"
	"github.com/tixify/tixify-server/internal/service"
)

// BookingHandler holds all HTTP handlers for bookings. Every route is
// authenticated.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// ListByEvent handles GET /bookings/event/{eventId}.
func (h *BookingHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	bookings, err := h.svc.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ListSelf handles GET /bookings
// Returns the caller's own bookings. The owner email comes from the
// verified identity, never from a request parameter.
func (h *BookingHandler) ListSelf(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	bookings, err := h.svc.ListByOwner(r.Context(), identity.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	var req model.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Create(r.Context(), identity.Email, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Delete handles DELETE /bookings/{id}
// Deleting an id that does not exist succeeds with a zero deleted count.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	result, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
