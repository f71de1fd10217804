// Package bootstrap wires process-wide runtime dependencies shared by the
// server and the command-line tools.
package bootstrap

import (
	"fmt"

	"petchef/internal/cache"
	"petchef/internal/config"
	"petchef/internal/database"
	"petchef/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the connections opened by InitRuntime.
type Runtime struct {
	DB *gorm.DB
	// Redis is nil when the server was unreachable at startup.
	Redis *redis.Client
}

// InitRuntime connects to the database (applying the schema) and to Redis.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	rdb := cache.InitRedis(cfg.RedisURL)

	return &Runtime{DB: db, Redis: rdb}, nil
}

// NewStorage builds the repository set for db using the configured bcrypt
// cost, the Redis cache when rdb is non-nil and the read replica opened by
// database.Connect when db is the process-wide primary.
func NewStorage(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *repository.Storage {
	opts := []repository.Option{
		repository.WithHashCost(cfg.BcryptCost),
	}
	if rdb != nil {
		opts = append(opts, repository.WithCache(cache.New(rdb)))
	}
	if db == database.DB {
		if reader := database.GetReadDB(); reader != db {
			opts = append(opts, repository.WithReadReplica(reader))
		}
	}
	return repository.NewStorage(db, opts...)
}
