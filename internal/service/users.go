package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/model"
	"github.com/tixify/tixify-server/internal/repository"
)

// UserStore is the persistence surface the user service needs. It is
// implemented by *repository.UserRepository.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Insert(ctx context.Context, u model.User) (*model.InsertResult, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.UpdateResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error)
}

// UserService orchestrates identity operations.
type UserService struct {
	users UserStore
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register stores a new identity. Registration is idempotent by email:
// if the email is already registered the call fails with
// repository.ErrDuplicateEmail, which callers report as a normal
// "already exists" outcome rather than an error. New users always start
// at the default role.
func (s *UserService) Register(ctx context.Context, req model.CreateUserRequest) (*model.InsertResult, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: email is not a valid email address", ErrValidation)
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, repository.ErrDuplicateEmail
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := model.User{
		Email:     req.Email,
		Name:      req.Name,
		Photo:     req.Photo,
		Role:      model.RoleDefault,
		CreatedAt: time.Now().UTC(),
	}
	// The unique index backstops the look-before-insert race; a losing
	// concurrent insert surfaces as ErrDuplicateEmail here too.
	return s.users.Insert(ctx, user)
}

// List returns all identity records.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.FindAll(ctx)
}

// Delete removes the identity with the given id. Deleting a missing id
// succeeds with a zero deleted count.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	return s.users.DeleteByID(ctx, id)
}

// Promote elevates the identity with the given id to admin. There is no
// demotion path: the role is monotonic under the exposed operations.
func (s *UserService) Promote(ctx context.Context, id primitive.ObjectID) (*model.UpdateResult, error) {
	return s.users.UpdateRole(ctx, id, model.RoleAdmin)
}

// HasAdminRole reports whether the identity with the given email holds
// the admin role. A missing identity is simply not an admin. The lookup
// is fresh on every call; role changes apply on the next request.
func (s *UserService) HasAdminRole(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("look up role: %w", err)
	}
	return user.IsAdmin(), nil
}

// AdminStatus answers the self-service admin check. It only answers for
// the caller's own email: on a mismatch it returns false without
// consulting the store at all, so the endpoint cannot be used to probe
// which emails hold elevated roles.
func (s *UserService) AdminStatus(ctx context.Context, callerEmail, queryEmail string) (bool, error) {
	if callerEmail != queryEmail {
		return false, nil
	}
	return s.HasAdminRole(ctx, queryEmail)
}
