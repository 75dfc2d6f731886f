package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/user/almacen-go/apperror"
)

// invalidCredentialsMsg is the single message used for every login failure:
// unknown user, wrong password, and inactive account all produce the same
// response so callers cannot enumerate usernames.
const invalidCredentialsMsg = "incorrect username or password"

// dummyHash is a throwaway bcrypt hash compared against when a username does
// not resolve, so the unknown-user path performs the same bcrypt work as the
// wrong-password path.
var dummyHash, _ = HashPassword("timing-equalizer")

// AuthService combines the credential store, password hasher, and token
// codec into the authentication operations exposed over HTTP.
type AuthService struct {
	store UserStore
	codec *TokenCodec
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, codec *TokenCodec) *AuthService {
	return &AuthService{store: store, codec: codec}
}

// Register creates a new user from the registration request. The password is
// hashed before it reaches the store; uniqueness conflicts surface as
// ConflictError.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.store.CreateUser(ctx, req.Username, strings.ToLower(req.Email), hashed)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate turns a (username, password) pair into an authenticated user
// or a rejection. All rejection branches return an identical AuthError;
// store connectivity failures propagate as-is so they are not mistaken for
// bad credentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a bcrypt comparison so this branch costs the same as a mismatch.
			CheckPassword(password, dummyHash)
			return nil, apperror.NewAuthError(invalidCredentialsMsg, nil)
		}
		log.Printf("credential store error during authentication: %v", err)
		return nil, err
	}

	if !CheckPassword(password, user.HashedPassword) {
		return nil, apperror.NewAuthError(invalidCredentialsMsg, nil)
	}

	if !user.IsActive {
		return nil, apperror.NewAuthError(invalidCredentialsMsg, nil)
	}

	return user, nil
}

// Login authenticates the user and issues a bearer token with the configured
// expiration window.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, _, err := s.codec.Issue(user.Username)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
