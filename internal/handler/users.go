package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/model"
	"github.com/tixify/tixify-server/internal/repository"
	"github.com/tixify/tixify-server/internal/service"
)

// UserHandler holds all HTTP handlers for identity management.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register handles POST /users and POST /saveUser
// Registration is idempotent by email: a duplicate registration returns
// the "User already exists" message with a 200, not an error.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User already exists"})
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// List handles GET /users (admin only) and GET /saveUser (public, when
// the listing policy allows the route to be mounted).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Delete handles DELETE /users/{id} (admin only).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Promote handles PATCH /users/admin/{id} (admin only).
// Sets the role to admin; the only role mutation the API exposes.
func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	result, err := h.svc.Promote(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AdminStatus handles GET /users/admin/{email}
// Answers only for the caller's own email; a mismatched email gets a
// negative answer without any registry lookup.
func (h *UserHandler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden access")
		return
	}

	email := chi.URLParam(r, "email")
	isAdmin, err := h.svc.AdminStatus(r.Context(), identity.Email, email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, model.AdminStatus{Admin: isAdmin})
}
