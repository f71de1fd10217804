// Package repository implements the data access layer for the application.
package repository

import (
	"petchef/internal/cache"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Storage groups the repositories that share one database handle.
type Storage struct {
	Users     UserRepository
	Pets      PetRepository
	Recipes   RecipeRepository
	Comments  CommentRepository
	Favorites FavoriteRepository
	Followers FollowerRepository

	db *gorm.DB
}

type options struct {
	hashCost int
	cache    *cache.Cache
	reader   *gorm.DB
}

// Option configures NewStorage.
type Option func(*options)

// WithHashCost sets the bcrypt cost used when storing passwords.
func WithHashCost(cost int) Option {
	return func(o *options) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			o.hashCost = cost
		}
	}
}

// WithCache enables the Redis cache-aside for user lookups.
func WithCache(c *cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithReadReplica routes read-only queries to reader. A nil reader is ignored.
func WithReadReplica(reader *gorm.DB) Option {
	return func(o *options) { o.reader = reader }
}

// NewStorage wires every repository to db.
func NewStorage(db *gorm.DB, opts ...Option) *Storage {
	o := options{hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}

	b := base{db: db, reader: o.reader}
	return &Storage{
		Users:     &userRepository{base: b, cache: o.cache, hashCost: o.hashCost},
		Pets:      &petRepository{base: b},
		Recipes:   &recipeRepository{base: b},
		Comments:  &commentRepository{base: b},
		Favorites: &favoriteRepository{base: b},
		Followers: &followerRepository{base: b},
		db:        db,
	}
}

// DB returns the primary connection.
func (s *Storage) DB() *gorm.DB {
	return s.db
}
