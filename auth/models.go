// Package auth is responsible for authentication and authorization: user
// registration, login, token issuance and validation, and the middleware
// gating every protected route.
package auth

import "time"

// User represents an identity record in the system.
// Username and email are unique across all users. The password hash is
// carried for verification only and is excluded from JSON serialization.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose the hash
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
