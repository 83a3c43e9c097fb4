package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tixify/tixify-server/internal/auth"
)

type ctxKey int

const identityCtxKey ctxKey = iota

// Identity is the verified identity of the current request, extracted
// from a validated bearer token.
type Identity struct {
	Email  string
	Claims *auth.Claims
}

// IdentityFrom returns the verified identity attached to the context by
// RequireAuth, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(*Identity)
	return id, ok
}

// RoleChecker answers whether an email holds the admin role. Implemented
// by *service.UserService.
type RoleChecker interface {
	HasAdminRole(ctx context.Context, email string) (bool, error)
}

// Auth provides the authentication and authorization middleware.
type Auth struct {
	tokens *auth.Manager
	roles  RoleChecker
	log    zerolog.Logger
}

// NewAuth constructs the auth middleware.
func NewAuth(tokens *auth.Manager, roles RoleChecker, log zerolog.Logger) *Auth {
	return &Auth{tokens: tokens, roles: roles, log: log}
}

// RequireAuth validates the bearer token and attaches the verified
// identity to the request context. A missing Authorization header is a
// 401; a malformed, expired, or badly signed token is a 403.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.tokens.VerifyHeader(r.Header.Get("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingHeader) {
				writeError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}
			writeError(w, http.StatusForbidden, "forbidden access")
			return
		}

		identity := &Identity{Email: claims.Email, Claims: claims}
		ctx := context.WithValue(r.Context(), identityCtxKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route on the admin role. It must run after
// RequireAuth. The role is re-read from the registry on every request so
// promotions and deletions take effect immediately (the token itself
// stays valid until expiry).
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusForbidden, "forbidden access")
			return
		}

		isAdmin, err := a.roles.HasAdminRole(r.Context(), identity.Email)
		if err != nil {
			a.log.Error().Err(err).Str("email", identity.Email).Msg("admin role lookup failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		if !isAdmin {
			writeError(w, http.StatusForbidden, "forbidden access")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AccessLog returns a middleware writing one structured log line per
// request.
func AccessLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

// CORS is a permissive CORS middleware for browser clients.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
