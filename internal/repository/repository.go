// Package repository implements all database access for the ticketing
// platform. Each repository wraps one MongoDB collection; every method
// performs exactly one single-document or single-cursor operation.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert collides with the unique
// email index on the users collection.
var ErrDuplicateEmail = errors.New("email already registered")
