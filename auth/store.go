package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/almacen-go/apperror"
	"github.com/user/almacen-go/db"
)

// ErrUserNotFound is returned by UserStore lookups when no user record
// matches. Callers decide how it surfaces: the authenticator collapses it
// into the uniform invalid-credentials rejection, the middleware maps it to
// an authentication failure.
var ErrUserNotFound = errors.New("user not found")

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// UserStore is the credential store adapter: it resolves usernames to user
// records and inserts new ones. Lookups are case-sensitive on username.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, username, email, hashedPassword string) (*User, error)
}

// PostgresUserStore implements UserStore on a pgx connection pool.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

// FindByUsername retrieves a user by their username. Returns ErrUserNotFound
// when no row matches.
func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, email, hashed_password, is_active, created_at
	          FROM users WHERE username = $1`

	var user User
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, db.ClassifyError("failed to get user by username", err)
	}
	return &user, nil
}

// CreateUser inserts a new active user record. Username and email uniqueness
// is enforced by database constraints rather than a pre-insert check, so
// concurrent registrations for the same name resolve to exactly one winner.
func (s *PostgresUserStore) CreateUser(ctx context.Context, username, email, hashedPassword string) (*User, error) {
	query := `INSERT INTO users (username, email, hashed_password, is_active)
	          VALUES ($1, $2, $3, TRUE)
	          RETURNING id, created_at`

	user := &User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}
	err := s.pool.QueryRow(ctx, query, username, email, hashedPassword).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email already exists", nil)
			}
			return nil, apperror.NewConflictError("username already exists", nil)
		}
		return nil, db.ClassifyError("failed to create user", err)
	}
	return user, nil
}
