// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
//
// Each service depends on a store interface rather than a concrete
// repository so tests can substitute doubles.
package service

import (
	"errors"
	"strings"
)

// ErrValidation wraps every request-validation failure so handlers can
// map it to a 400 without inspecting message text.
var ErrValidation = errors.New("invalid request")

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}

// normalizeEmail lowercases and trims an email for use as an identity key.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
