package auth

import "context"

// contextKey is a private type for context keys so values set by this
// package cannot collide with keys from other packages.
type contextKey string

const userContextKey contextKey = "auth_user"

// NewContextWithUser returns a child context carrying the resolved user.
// The middleware stores the full user record here; it is request-scoped and
// discarded when the request completes.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the authenticated user stored by the middleware.
// The second return value reports whether a user was present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}
