package repository

import (
	"context"

	"petchef/internal/models"
)

// FollowerRepository defines persistence operations for follow edges.
type FollowerRepository interface {
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	Follow(ctx context.Context, followerID, followingID uint) (*models.Follower, error)
	Unfollow(ctx context.Context, followerID, followingID uint) error
	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
}

type followerRepository struct {
	base
}

func (r *followerRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.readDB(ctx).WithContext(ctx).Model(&models.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Follow inserts the edge. Repeats and self-follows are rejected by the schema.
func (r *followerRepository) Follow(ctx context.Context, followerID, followingID uint) (*models.Follower, error) {
	edge := &models.Follower{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.WithContext(ctx).Omit("FollowerUser", "FollowingUser").Create(edge).Error; err != nil {
		switch {
		case isUniqueConstraintError(err):
			return nil, models.NewDuplicateKeyError("Already following this user", err)
		case isCheckConstraintError(err):
			return nil, models.NewValidationError("You cannot follow yourself")
		case isForeignKeyError(err):
			return nil, r.missingReference(ctx,
				reference{"users", "User", followerID},
				reference{"users", "User", followingID})
		default:
			return nil, models.NewInternalError(err)
		}
	}
	return edge, nil
}

func (r *followerRepository) Unfollow(ctx context.Context, followerID, followingID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follower{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.AppError{Code: models.CodeNotFound, Message: "Not following this user"}
	}
	return nil
}

// ListFollowers returns the users following userID, most recent first.
func (r *followerRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return r.listUsers(ctx, "followers.follower_id", "followers.following_id", userID)
}

// ListFollowing returns the users userID follows, most recent first.
func (r *followerRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return r.listUsers(ctx, "followers.following_id", "followers.follower_id", userID)
}

func (r *followerRepository) listUsers(ctx context.Context, joinCol, whereCol string, userID uint) ([]models.User, error) {
	users := []models.User{}
	err := r.readDB(ctx).WithContext(ctx).Model(&models.User{}).
		Select(publicUserColumns).
		Joins("JOIN followers ON "+joinCol+" = users.id").
		Where(whereCol+" = ?", userID).
		Order("followers.created_at DESC, followers.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
