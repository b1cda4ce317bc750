// Package token issues and verifies the HS256 tokens presented in the auth
// header.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalid = errors.New("token: invalid")

// Subject is the identity block embedded in every token.
type Subject struct {
	ID string `json:"id"`
}

// Claims carries the user block plus the registered exp/iat/jti claims.
type Claims struct {
	User Subject `json:"user"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID that expires after the manager's TTL.
func (m *Manager) Issue(userID string) (string, error) {
	now := m.now()
	claims := Claims{
		User: Subject{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry. Every failure collapses to
// ErrInvalid.
func (m *Manager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid || claims.User.ID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
