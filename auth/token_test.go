package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/almacen-go/config"
)

func newTestCodec(secret string) *TokenCodec {
	return NewTokenCodec(config.AuthConfig{
		JWTSecret:         secret,
		AccessTokenExpiry: 30 * time.Minute,
	})
}

func TestTokenCodec_Roundtrip(t *testing.T) {
	codec := newTestCodec("test-secret")

	token, expiresAt, err := codec.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := codec.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := newTestCodec("test-secret")

	token, _, err := codec.IssueWithTTL("alice", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec("test-secret")
	other := newTestCodec("another-secret")

	token, _, err := other.Issue("alice")
	require.NoError(t, err)

	_, err = codec.Validate(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := newTestCodec("test-secret")

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Validate(raw)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenCodec_WrongAlgorithm(t *testing.T) {
	codec := newTestCodec("test-secret")

	// Unsigned token claiming alg "none".
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Validate(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_MissingSubject(t *testing.T) {
	codec := newTestCodec("test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Validate(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
