package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewSigner("test-secret", 0)
	assert.Equal(t, time.Hour, s.TTL())

	token, err := s.Issue(42)
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestVerifyMissing(t *testing.T) {
	_, err := NewSigner("k", 0).Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner("k", time.Hour)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issuedAt }

	token, err := s.Issue(7)
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = s.Verify(token)
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewSigner("one", 0).Issue(1)
	require.NoError(t, err)

	_, err = NewSigner("two", 0).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTampered(t *testing.T) {
	s := NewSigner("k", 0)
	token, err := s.Issue(1)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[2] = strings.Repeat("A", len(parts[2]))

	_, err = s.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewSigner("k", 0).Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyRejectsTokenWithoutExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewSigner("k", 0).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("not-a-hash", "secret1"))
}
