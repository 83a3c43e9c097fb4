package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tixify/tixify-server/internal/auth"
	"github.com/tixify/tixify-server/internal/model"
	"github.com/tixify/tixify-server/internal/repository"
	"github.com/tixify/tixify-server/internal/service"
)

// ─── In-memory stores ─────────────────────────────────────────────────────────

type userStore struct {
	mu          sync.Mutex
	users       map[string]*model.User
	lookupCalls int
}

func newUserStore() *userStore { return &userStore{users: make(map[string]*model.User)} }

func (s *userStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupCalls++
	if u, ok := s.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *userStore) FindAll(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *userStore) Insert(_ context.Context, u model.User) (*model.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return nil, repository.ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	s.users[u.Email] = &u
	return &model.InsertResult{InsertedID: u.ID.Hex()}, nil
}

func (s *userStore) UpdateRole(_ context.Context, id primitive.ObjectID, role model.Role) (*model.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.Role = role
			return &model.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &model.UpdateResult{}, nil
}

func (s *userStore) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, u := range s.users {
		if u.ID == id {
			delete(s.users, email)
			return &model.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &model.DeleteResult{DeletedCount: 0}, nil
}

func (s *userStore) seed(email string, role model.Role) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	s.users[email] = &model.User{ID: id, Email: email, Role: role, CreatedAt: time.Now().UTC()}
	return id
}

type eventStore struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*model.Event
}

func newEventStore() *eventStore { return &eventStore{events: make(map[primitive.ObjectID]*model.Event)} }

func (s *eventStore) FindAll(_ context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (s *eventStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *eventStore) Insert(_ context.Context, e model.Event) (*model.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = primitive.NewObjectID()
	s.events[e.ID] = &e
	return &model.InsertResult{InsertedID: e.ID.Hex()}, nil
}

func (s *eventStore) Update(_ context.Context, id primitive.ObjectID, fields bson.M) (*model.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return &model.UpdateResult{}, nil
	}
	return &model.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *eventStore) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return &model.DeleteResult{DeletedCount: 0}, nil
	}
	delete(s.events, id)
	return &model.DeleteResult{DeletedCount: 1}, nil
}

type bookingStore struct {
	mu       sync.Mutex
	bookings []model.Booking
}

func (s *bookingStore) FindByEvent(_ context.Context, eventID primitive.ObjectID) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *bookingStore) FindByEmail(_ context.Context, email string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *bookingStore) Insert(_ context.Context, b model.Booking) (*model.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = primitive.NewObjectID()
	s.bookings = append(s.bookings, b)
	return &model.InsertResult{InsertedID: b.ID.Hex()}, nil
}

func (s *bookingStore) DeleteByID(_ context.Context, id primitive.ObjectID) (*model.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return &model.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &model.DeleteResult{DeletedCount: 0}, nil
}

type paymentStore struct {
	mu       sync.Mutex
	payments []model.Payment
}

func (s *paymentStore) Insert(_ context.Context, p model.Payment) (*model.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	s.payments = append(s.payments, p)
	return &model.InsertResult{InsertedID: p.ID.Hex()}, nil
}

// ─── Test environment ─────────────────────────────────────────────────────────

type env struct {
	srv      *httptest.Server
	tokens   *auth.Manager
	users    *userStore
	events   *eventStore
	bookings *bookingStore
	payments *paymentStore
}

type envOptions struct {
	publicUserListing       bool
	enforceBookingOwnership bool
}

// newEnv assembles the full route table over in-memory stores, mirroring
// the production wiring.
func newEnv(t *testing.T, opts envOptions) *env {
	t.Helper()

	users := newUserStore()
	events := newEventStore()
	bookings := &bookingStore{}
	payments := &paymentStore{}

	userSvc := service.NewUserService(users)
	eventSvc := service.NewEventService(events)
	bookingSvc := service.NewBookingService(bookings, opts.enforceBookingOwnership)
	paymentSvc := service.NewPaymentService(payments)

	tokens := auth.NewManager("test-secret", time.Hour)
	authmw := NewAuth(tokens, userSvc, zerolog.Nop())

	tokenHandler := NewTokenHandler(tokens)
	userHandler := NewUserHandler(userSvc)
	eventHandler := NewEventHandler(eventSvc)
	bookingHandler := NewBookingHandler(bookingSvc)
	paymentHandler := NewPaymentHandler(paymentSvc)

	r := chi.NewRouter()
	r.Get("/", Root)
	r.Get("/health", Health(func(context.Context) error { return nil }))
	r.Post("/jwt", tokenHandler.Issue)

	r.Post("/saveUser", userHandler.Register)
	if opts.publicUserListing {
		r.Get("/saveUser", userHandler.List)
	} else {
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Get("/saveUser", userHandler.List)
	}
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Get("/", userHandler.List)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Delete("/{id}", userHandler.Delete)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Patch("/admin/{id}", userHandler.Promote)
		r.With(authmw.RequireAuth).Get("/admin/{email}", userHandler.AdminStatus)
	})
	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/{eventId}", eventHandler.Get)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Post("/", eventHandler.Create)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Put("/{id}", eventHandler.Update)
		r.With(authmw.RequireAuth, authmw.RequireAdmin).Delete("/{id}", eventHandler.Delete)
	})
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authmw.RequireAuth)
		r.Get("/event/{eventId}", bookingHandler.ListByEvent)
		r.Get("/", bookingHandler.ListSelf)
		r.Post("/", bookingHandler.Create)
		r.Delete("/{id}", bookingHandler.Delete)
	})
	r.With(authmw.RequireAuth).Post("/payments", paymentHandler.Create)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &env{
		srv:      srv,
		tokens:   tokens,
		users:    users,
		events:   events,
		bookings: bookings,
		payments: payments,
	}
}

func (e *env) token(t *testing.T, email string) string {
	t.Helper()
	token, err := e.tokens.Issue(email, "")
	require.NoError(t, err)
	return token
}

// do performs a request, optionally authenticated, and returns the
// response with its body fully read.
func (e *env) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}
