package session

import (
	"context"
	"testing"
	"time"

	"petchef/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-1234"

func newRedisManager(t *testing.T) (*miniredis.Miniredis, *Manager) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewManager(testSecret, time.Hour, rdb)
}

func TestIssueAndValidate(t *testing.T) {
	mr, m := newRedisManager(t)
	ctx := context.Background()

	token, claims, err := m.Issue(ctx, 42, "ana")
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	key := cache.SessionKey(claims.ID)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	userID, err := m.ValidateSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestRevoke(t *testing.T) {
	_, m := newRedisManager(t)
	ctx := context.Background()

	token, _, err := m.Issue(ctx, 7, "bob")
	require.NoError(t, err)
	other, _, err := m.Issue(ctx, 7, "bob")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	_, err = m.ValidateSession(ctx, token)
	assert.ErrorIs(t, err, ErrRevoked)

	_, err = m.ValidateSession(ctx, other)
	assert.NoError(t, err, "revoking one session leaves the others alive")
}

func TestRegistryExpiry(t *testing.T) {
	mr, m := newRedisManager(t)
	ctx := context.Background()

	token, _, err := m.Issue(ctx, 1, "ana")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	_, err = m.ValidateSession(ctx, token)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestRedisOutageFailsOpen(t *testing.T) {
	mr, m := newRedisManager(t)
	ctx := context.Background()

	token, _, err := m.Issue(ctx, 3, "cleo")
	require.NoError(t, err)
	mr.Close()

	userID, err := m.ValidateSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), userID)
}

func TestWithoutRedis(t *testing.T) {
	m := NewManager(testSecret, time.Hour, nil)
	ctx := context.Background()

	token, _, err := m.Issue(ctx, 9, "dan")
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, token))

	userID, err := m.ValidateSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), userID)
}

func TestParseRejects(t *testing.T) {
	m := NewManager(testSecret, time.Hour, nil)
	ctx := context.Background()

	issuedAt := time.Now().Add(-3 * time.Hour)
	m.now = func() time.Time { return issuedAt }
	expired, _, err := m.Issue(ctx, 1, "ana")
	require.NoError(t, err)
	m.now = time.Now

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongKey, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	wrongAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":        expired,
		"wrong key":      wrongKey,
		"wrong audience": wrongAudience,
		"garbage":        "not-a-jwt",
		"empty":          "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMissingSecret(t *testing.T) {
	m := NewManager("", time.Hour, nil)
	_, _, err := m.Issue(context.Background(), 1, "ana")
	assert.ErrorIs(t, err, ErrNoSecret)
}
