package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/almacen-go/config"
)

// Sentinel errors returned by TokenCodec.Validate. Expired tokens are
// distinguished from every other failure mode so that handlers can vary the
// message text, but both surface the same HTTP status.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the claim set carried by a session token. The subject registered
// claim holds the username.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and validates stateless HS256-signed session tokens.
// There is no server-side session table: validity is determined entirely by
// the signature and the expiration instant, so the secret key is the whole
// trust boundary and rotating it invalidates every outstanding token.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a TokenCodec from the auth configuration.
func NewTokenCodec(cfg config.AuthConfig) *TokenCodec {
	return &TokenCodec{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.AccessTokenExpiry,
	}
}

// Issue creates a signed token for the given subject using the configured
// default TTL. It returns the token string and its expiration instant.
func (c *TokenCodec) Issue(subject string) (string, time.Time, error) {
	return c.IssueWithTTL(subject, c.ttl)
}

// IssueWithTTL creates a signed token for the given subject that expires
// after the provided TTL.
func (c *TokenCodec) IssueWithTTL(subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Validate parses the raw token, verifies its HMAC signature and expiration,
// and returns the claim set. It returns ErrExpiredToken when the signature
// is valid but the token is past its expiration instant, and ErrInvalidToken
// for every other failure: malformed structure, bad signature, unexpected
// signing algorithm, or a missing subject claim.
func (c *TokenCodec) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}
	return claims, nil
}
