package repository

import (
	"context"

	"petchef/internal/cache"
	"petchef/internal/models"
	"petchef/internal/observability"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	GetProfile(ctx context.Context, id uint) (*models.UserProfile, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	base
	cache    *cache.Cache
	hashCost int
}

// GetByID returns the user without the password hash.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.loadPublic(ctx, r.readDB(ctx), id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) loadPublic(ctx context.Context, db *gorm.DB, id uint, dest *models.User) error {
	if err := omitPassword(db.WithContext(ctx)).First(dest, id).Error; err != nil {
		return notFoundOr(err, "User", id)
	}
	dest.Password = ""
	return nil
}

// GetByEmail returns the user including the password hash, or (nil, nil).
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findWithHash(ctx, "email = ?", email)
}

// GetByUsername returns the user including the password hash, or (nil, nil).
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findWithHash(ctx, "username = ?", username)
}

func (r *userRepository) findWithHash(ctx context.Context, cond string, arg any) (*models.User, error) {
	var users []models.User
	// Find+Limit rather than First keeps a miss out of the error path.
	if err := r.db.WithContext(ctx).Where(cond, arg).Limit(1).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// Create hashes user.Password, inserts the row and strips the hash from user.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), r.hashCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.ID = 0
	user.Password = string(hash)

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		user.Password = ""
		if isUniqueConstraintError(err) {
			return r.duplicateError(ctx, user.Username, 0, err)
		}
		return models.NewInternalError(err)
	}
	user.Password = ""
	return nil
}

// duplicateError names the conflicting field once the constraint has fired.
func (r *userRepository) duplicateError(ctx context.Context, username string, self uint, cause error) error {
	var taken int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, self).
		Count(&taken).Error
	if err == nil && taken > 0 {
		dup := models.NewDuplicateKeyError("Username already taken", cause)
		dup.Field = "username"
		return dup
	}
	dup := models.NewDuplicateKeyError("Email already registered", cause)
	dup.Field = "email"
	return dup
}

// Update applies the supplied fields, re-hashing a new password.
func (r *userRepository) Update(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	cols := update.Columns()
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), r.hashCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		cols["password"] = string(hash)
	}

	if len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			if isUniqueConstraintError(res.Error) {
				username := ""
				if update.Username != nil {
					username = *update.Username
				}
				return nil, r.duplicateError(ctx, username, id, res.Error)
			}
			return nil, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, models.NewNotFoundError("User", id)
		}
		r.cache.InvalidateUser(ctx, id)
	}

	var user models.User
	if err := r.loadPublic(ctx, r.db, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the user; pets, recipes, comments, favorites and follow
// edges go with it through ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	r.cache.InvalidateUser(ctx, id)
	return nil
}

type profileCounts struct {
	PetsCount      int64
	RecipesCount   int64
	FollowersCount int64
	FollowingCount int64
}

// GetProfile returns the public profile with activity counts.
func (r *userRepository) GetProfile(ctx context.Context, id uint) (profile *models.UserProfile, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "users", "GetProfile")
	defer func() { observability.EndSpan(span, err) }()

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var counts profileCounts
	err = r.readDB(ctx).WithContext(ctx).Raw(`SELECT
		(SELECT COUNT(*) FROM pets WHERE user_id = ?) AS pets_count,
		(SELECT COUNT(*) FROM recipes WHERE user_id = ?) AS recipes_count,
		(SELECT COUNT(*) FROM followers WHERE following_id = ?) AS followers_count,
		(SELECT COUNT(*) FROM followers WHERE follower_id = ?) AS following_count`,
		id, id, id, id).Scan(&counts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.UserProfile{
		User:           *user,
		PetsCount:      counts.PetsCount,
		RecipesCount:   counts.RecipesCount,
		FollowersCount: counts.FollowersCount,
		FollowingCount: counts.FollowingCount,
	}, nil
}

// Search finds users whose username contains query, case-insensitively.
func (r *userRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	limit, offset = clampPage(limit, offset)
	db := r.readDB(ctx)

	users := []models.User{}
	err := omitPassword(db.WithContext(ctx)).
		Where(substringMatch(db, "LOWER(username)"), toLower(query)).
		Order("username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
