package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/almacen-go/config"
)

// protectedEcho is a handler that records whether it ran and answers with
// the resolved username.
func protectedEcho(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		user, ok := UserFromContext(r.Context())
		if !ok {
			http.Error(w, "no user", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(user.Username))
	})
}

func doProtected(t *testing.T, codec *TokenCodec, store UserStore, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	handler := RequireAuth(codec, store)(protectedEcho(&called))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func TestRequireAuth_Success(t *testing.T) {
	store := newFakeUserStore()
	store.addUser(t, "alice", "secret1", true)
	codec := newTestCodec("test-secret")

	token, _, err := codec.Issue("alice")
	require.NoError(t, err)

	rec, called := doProtected(t, codec, store, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	rec, called := doProtected(t, newTestCodec("test-secret"), newFakeUserStore(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called, "handler must not run after an auth failure")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	codec := newTestCodec("test-secret")
	store := newFakeUserStore()

	for _, header := range []string{"Bearer", "Token abc", "abc"} {
		rec, called := doProtected(t, codec, store, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.False(t, called)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	store := newFakeUserStore()
	store.addUser(t, "alice", "secret1", true)
	codec := newTestCodec("test-secret")

	token, _, err := codec.IssueWithTTL("alice", -time.Minute)
	require.NoError(t, err)

	rec, called := doProtected(t, codec, store, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "token has expired", body["error"])
}

func TestRequireAuth_ForeignKeyToken(t *testing.T) {
	store := newFakeUserStore()
	store.addUser(t, "alice", "secret1", true)
	codec := newTestCodec("test-secret")

	forged := NewTokenCodec(config.AuthConfig{
		JWTSecret:         "attacker-secret",
		AccessTokenExpiry: 30 * time.Minute,
	})
	token, _, err := forged.Issue("alice")
	require.NoError(t, err)

	rec, called := doProtected(t, codec, store, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuth_UserDeletedAfterIssuance(t *testing.T) {
	store := newFakeUserStore()
	codec := newTestCodec("test-secret")

	// Token for a user that no longer exists in the store.
	token, _, err := codec.Issue("ghost")
	require.NoError(t, err)

	rec, called := doProtected(t, codec, store, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuth_DeactivatedAfterIssuance(t *testing.T) {
	store := newFakeUserStore()
	user := store.addUser(t, "alice", "secret1", true)
	codec := newTestCodec("test-secret")

	token, _, err := codec.Issue("alice")
	require.NoError(t, err)

	// The token stays cryptographically valid, but the account is gated out.
	user.IsActive = false

	rec, called := doProtected(t, codec, store, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
