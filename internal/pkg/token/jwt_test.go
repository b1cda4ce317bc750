package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := NewManager("super-secret", 10*time.Hour)

	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.User.ID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(10*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	m := NewManager("k", time.Hour)
	a, err := m.Issue("u1")
	require.NoError(t, err)
	b, err := m.Issue("u1")
	require.NoError(t, err)

	ca, _ := m.Verify(a)
	cb, _ := m.Verify(b)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", -time.Second)
	tok, err := m.Issue("u1")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewManager("right-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = NewManager("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewManager("k", time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{
		User:             Subject{ID: "u3"},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_MissingUser(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}
