package handler

import (
	"net/http"

	"github.com/tixify/tixify-server/internal/auth"
	"github.com/tixify/tixify-server/internal/model"
)

// TokenHandler issues bearer tokens.
type TokenHandler struct {
	tokens *auth.Manager
}

// NewTokenHandler constructs a TokenHandler.
func NewTokenHandler(tokens *auth.Manager) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Issue handles POST /jwt
// Signs the caller-supplied identity claims and responds with the bare
// token string. Anyone may request a token; authorization happens later,
// against the registry, not here.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req model.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.tokens.Issue(req.Email, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(token))
}
