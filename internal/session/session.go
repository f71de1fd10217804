// Package session issues and validates the bearer tokens that back a login.
//
// A session is a signed HS256 JWT. When Redis is configured each issued
// token id (jti) is also registered under session:<jti> for the lifetime of
// the token, which is what makes logout effective. Without Redis the
// signature and expiry alone decide validity.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"petchef/internal/cache"
	"petchef/internal/middleware"
	"petchef/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	Issuer   = "petchef-api"
	Audience = "petchef-client"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session has been revoked")
	ErrNoSecret     = errors.New("session secret not configured")
)

// Claims is the JWT payload of a session.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// Manager owns the session lifecycle.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewManager returns a Manager signing with secret. rdb may be nil.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		rdb:    rdb,
		now:    time.Now,
	}
}

// TTL is the lifetime of newly issued sessions.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a session for the user and returns the signed token.
func (m *Manager) Issue(ctx context.Context, userID uint, username string) (string, *Claims, error) {
	if len(m.secret) == 0 {
		return "", nil, ErrNoSecret
	}

	now := m.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	if m.rdb != nil {
		if err := m.rdb.Set(ctx, cache.SessionKey(claims.ID), claims.Subject, m.ttl).Err(); err != nil {
			middleware.RedisErrors.WithLabelValues("set").Inc()
			return "", nil, fmt.Errorf("register session: %w", err)
		}
	}

	observability.SessionsIssued.Inc()
	return token, claims, nil
}

// Parse checks the signature, issuer, audience and time claims.
// It does not consult the session registry.
func (m *Manager) Parse(token string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// Validate parses token and, when Redis is configured, requires its jti to
// still be registered. Redis transport errors fail open.
func (m *Manager) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.Parse(token)
	if err != nil {
		return nil, err
	}
	if m.rdb == nil {
		return claims, nil
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}

	owner, err := m.rdb.Get(ctx, cache.SessionKey(claims.ID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrRevoked
	case err != nil:
		middleware.RedisErrors.WithLabelValues("get").Inc()
		middleware.Logger.WarnContext(ctx, "session registry unavailable, trusting token", "error", err)
		return claims, nil
	case owner != claims.Subject:
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateSession implements middleware.SessionValidator.
func (m *Manager) ValidateSession(ctx context.Context, token string) (uint, error) {
	claims, err := m.Validate(ctx, token)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}

// Revoke ends the session. It is a no-op without Redis.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	claims, err := m.Parse(token)
	if err != nil {
		return err
	}
	if m.rdb == nil || claims.ID == "" {
		return nil
	}
	if err := m.rdb.Del(ctx, cache.SessionKey(claims.ID)).Err(); err != nil {
		middleware.RedisErrors.WithLabelValues("del").Inc()
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
