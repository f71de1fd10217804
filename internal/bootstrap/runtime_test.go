package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"petchef/internal/cache"
	"petchef/internal/config"
	"petchef/internal/models"
	"petchef/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func sqliteConfig(t *testing.T, redisURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Env:            "test",
		DBDriver:       "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "runtime.db"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
		RedisURL:       redisURL,
		BcryptCost:     bcrypt.MinCost,
	}
}

func closeRuntime(t *testing.T, rt *Runtime) {
	t.Cleanup(func() {
		if sqlDB, err := rt.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if rt.Redis != nil {
			_ = rt.Redis.Close()
		}
	})
}

func TestInitRuntime_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t, mr.Addr())

	rt, err := InitRuntime(cfg)
	require.NoError(t, err)
	closeRuntime(t, rt)

	require.NotNil(t, rt.DB)
	require.NotNil(t, rt.Redis)
	assert.True(t, rt.DB.Migrator().HasTable(&models.Recipe{}))

	store := NewStorage(cfg, rt.DB, rt.Redis)
	ctx := context.Background()
	user := &models.User{Username: "ana", Email: "ana@x.com", Password: "Plain-Password-1!"}
	require.NoError(t, store.Users.Create(ctx, user))

	_, err = store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.UserKey(user.ID)), "lookup should populate the cache")
}

func TestInitRuntime_RedisUnreachable(t *testing.T) {
	cfg := sqliteConfig(t, "127.0.0.1:1")

	rt, err := InitRuntime(cfg)
	require.NoError(t, err)
	closeRuntime(t, rt)

	assert.Nil(t, rt.Redis)
	assert.NotNil(t, NewStorage(cfg, rt.DB, nil))
}

func TestInitRuntime_BadDriver(t *testing.T) {
	cfg := sqliteConfig(t, "")
	cfg.DBDriver = "mysql"

	_, err := InitRuntime(cfg)
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestNewStorage_HashCost(t *testing.T) {
	cfg := &config.Config{BcryptCost: bcrypt.MinCost}
	store := NewStorage(cfg, testutil.NewSQLiteDB(t), nil)

	ctx := context.Background()
	user := &models.User{Username: "bob", Email: "bob@x.com", Password: "Plain-Password-1!"}
	require.NoError(t, store.Users.Create(ctx, user))

	stored, err := store.Users.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
