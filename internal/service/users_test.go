package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/model"
	"github.com/tixify/tixify-server/internal/repository"
)

// fakeUserStore is an in-memory UserStore that records lookups so tests
// can assert on side effects.
type fakeUserStore struct {
	mu               sync.Mutex
	users            map[string]*model.User // keyed by email
	findByEmailCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findByEmailCalls++
	if u, ok := f.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) FindAll(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Insert(_ context.Context, u model.User) (*model.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return nil, repository.ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	f.users[u.Email] = &u
	return &model.InsertResult{InsertedID: u.ID.Hex()}, nil
}

func (f *fakeUserStore) UpdateRole(_ context.Context, id primitive.ObjectID, role model.Role) (*model.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.Role = role
			return &model.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &model.UpdateResult{}, nil
}

func (f *fakeUserStore) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			return &model.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &model.DeleteResult{DeletedCount: 0}, nil
}

func (f *fakeUserStore) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findByEmailCalls
}

func TestRegisterIsIdempotentByEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	ctx := context.Background()

	first, err := svc.Register(ctx, model.CreateUserRequest{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.InsertedID)

	_, err = svc.Register(ctx, model.CreateUserRequest{Email: "alice@example.com", Name: "Alice Again"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "duplicate registration must not insert a second record")
}

func TestRegisterNormalizesEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	_, err := svc.Register(context.Background(), model.CreateUserRequest{Email: "  Alice@Example.COM "})
	require.NoError(t, err)

	_, ok := store.users["alice@example.com"]
	assert.True(t, ok, "email should be stored lowercased and trimmed")
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	_, err := svc.Register(context.Background(), model.CreateUserRequest{Email: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), model.CreateUserRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	_, err := svc.Register(context.Background(), model.CreateUserRequest{Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, model.RoleDefault, store.users["alice@example.com"].Role)
}

func TestAdminStatusMismatchedEmailSkipsLookup(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.CreateUserRequest{Email: "admin@example.com"})
	require.NoError(t, err)
	store.users["admin@example.com"].Role = model.RoleAdmin

	before := store.lookupCount()
	isAdmin, err := svc.AdminStatus(ctx, "someone@example.com", "admin@example.com")
	require.NoError(t, err)

	assert.False(t, isAdmin, "mismatched email always answers false, even for a real admin")
	assert.Equal(t, before, store.lookupCount(), "mismatched email must not touch the store")
}

func TestPromoteThenSelfCheck(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.CreateUserRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	id := store.users["bob@example.com"].ID

	isAdmin, err := svc.AdminStatus(ctx, "bob@example.com", "bob@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	res, err := svc.Promote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	isAdmin, err = svc.AdminStatus(ctx, "bob@example.com", "bob@example.com")
	require.NoError(t, err)
	assert.True(t, isAdmin, "promotion takes effect on the next check")
}

func TestHasAdminRoleMissingUser(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	isAdmin, err := svc.HasAdminRole(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin, "a missing identity is simply not an admin")
}

func TestDeleteMissingUser(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	res, err := svc.Delete(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DeletedCount)
}
