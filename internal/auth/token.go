// Package auth implements bearer-token issuing and verification.
//
// Tokens are HS256-signed JWTs carrying the caller-supplied identity
// claims plus a fixed validity window. There is no revocation: a token
// stays valid until expiry regardless of server-side state changes.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMissingHeader is returned when no Authorization header is present.
var ErrMissingHeader = errors.New("authorization header missing")

// ErrInvalidToken is returned for malformed, expired, or badly signed
// tokens, and for Authorization headers that do not follow the
// "Bearer <token>" convention.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload embedded in every issued token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a Manager. ttl is the validity window applied to
// every issued token.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity.
func (m *Manager) Issue(email, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates a raw token string and returns its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// VerifyHeader extracts the token from a raw Authorization header value
// and validates it. An absent header fails with ErrMissingHeader; a
// malformed scheme or bad token fails with ErrInvalidToken. The two are
// distinct so callers can map them to 401 and 403 respectively.
func (m *Manager) VerifyHeader(header string) (*Claims, error) {
	if header == "" {
		return nil, ErrMissingHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}
	return m.Verify(token)
}
