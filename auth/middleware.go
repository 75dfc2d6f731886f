package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/user/almacen-go/apperror"
)

// RequireAuth returns middleware that gates every protected route. It
// extracts the bearer token from the Authorization header, validates it with
// the codec, re-resolves the subject claim to a live user record through the
// store, and injects that user into the request context.
//
// The check is two-stage: a token can be cryptographically valid and still
// be rejected because the account was deactivated or deleted after issuance.
// Tokens are stateless and carry no live account status, so the store lookup
// is what keeps revoked accounts out. Every failure short-circuits the
// request before any handler logic runs.
func RequireAuth(codec *TokenCodec, store UserStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("authorization header is missing", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := codec.Validate(parts[1])
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					WriteError(w, r, apperror.NewAuthError("token has expired", err))
					return
				}
				WriteError(w, r, apperror.NewAuthError("invalid token", err))
				return
			}

			// The subject was a live username at issuance; the account may have
			// been removed since.
			user, err := store.FindByUsername(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					WriteError(w, r, apperror.NewAuthError("user not found", nil))
					return
				}
				WriteError(w, r, err)
				return
			}

			if !user.IsActive {
				WriteError(w, r, apperror.NewUnauthorizedError("user is inactive", nil))
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), user)))
		})
	}
}
