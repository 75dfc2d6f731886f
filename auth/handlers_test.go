package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the auth endpoints the same way main does, against a
// fake store.
func newTestRouter(store UserStore, svc *AuthService) chi.Router {
	handlers := NewHandlers(svc)
	r := chi.NewRouter()
	r.Post("/auth/register", handlers.HandleRegister())
	r.Post("/auth/login", handlers.HandleLogin())
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(svc.codec, store))
		r.Get("/me", handlers.HandleMe())
	})
	return r
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginMe_HappyPath(t *testing.T) {
	store := newFakeUserStore()
	router := newTestRouter(store, newTestService(store))

	// Register alice.
	rec := postJSON(t, router, "/auth/register", `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Username)
	assert.True(t, created.IsActive)
	assert.NotContains(t, rec.Body.String(), "password", "no password material in the response")

	// Login.
	rec = postJSON(t, router, "/auth/login", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokenResp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResp))
	assert.Equal(t, "bearer", tokenResp.TokenType)
	require.NotEmpty(t, tokenResp.AccessToken)

	// Use the token on /me.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code, meRec.Body.String())

	var me UserResponse
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.True(t, me.IsActive)
}

func TestLogin_FailureShapeIsUniform(t *testing.T) {
	store := newFakeUserStore()
	store.addUser(t, "alice", "secret1", true)
	router := newTestRouter(store, newTestService(store))

	// Wrong password for an existing user.
	wrongPassword := postJSON(t, router, "/auth/login", `{"username":"alice","password":"wrong"}`)
	// Login attempt for a user that does not exist.
	unknownUser := postJSON(t, router, "/auth/login", `{"username":"bob","password":"whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String(),
		"responses must not reveal whether the username exists")
}

func TestRegister_Validation(t *testing.T) {
	store := newFakeUserStore()
	router := newTestRouter(store, newTestService(store))

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{"username":"alice"}`},
		{"bad email", `{"username":"alice","email":"not-an-email","password":"secret1"}`},
		{"short password", `{"username":"alice","email":"alice@example.com","password":"abc"}`},
		{"invalid json", `{"username":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_DuplicateConflict(t *testing.T) {
	store := newFakeUserStore()
	router := newTestRouter(store, newTestService(store))

	body := `{"username":"alice","email":"alice@example.com","password":"secret1"}`
	rec := postJSON(t, router, "/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, router, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
