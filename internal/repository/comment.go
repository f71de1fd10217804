package repository

import (
	"context"

	"petchef/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
	ListTopLevel(ctx context.Context, recipeID uint) ([]*models.Comment, error)
	ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error)
	ListThread(ctx context.Context, recipeID uint) ([]*models.Comment, error)
}

type commentRepository struct {
	base
}

func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User", omitPassword)
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = 0
	if err := r.db.WithContext(ctx).Omit("User", "Recipe", "Parent").Create(comment).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("Recipe", comment.RecipeID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := preloadAuthor(r.readDB(ctx).WithContext(ctx)).First(&comment, id).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

// Delete removes the comment and, through the parent_id cascade, its replies.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) list(ctx context.Context, where string, args ...any) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := preloadAuthor(r.readDB(ctx).WithContext(ctx)).
		Where(where, args...).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// ListTopLevel returns the recipe's comments that are not replies, newest first.
func (r *commentRepository) ListTopLevel(ctx context.Context, recipeID uint) ([]*models.Comment, error) {
	return r.list(ctx, "recipe_id = ? AND parent_id IS NULL", recipeID)
}

// ListReplies returns the direct replies to a comment, newest first.
func (r *commentRepository) ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error) {
	return r.list(ctx, "parent_id = ?", commentID)
}

// ListThread loads every comment on the recipe in one query and returns the
// top-level comments with Replies filled in at every depth.
func (r *commentRepository) ListThread(ctx context.Context, recipeID uint) ([]*models.Comment, error) {
	all, err := r.list(ctx, "recipe_id = ?", recipeID)
	if err != nil {
		return nil, err
	}
	return BuildThread(all), nil
}

// BuildThread links comments into a forest by ParentID. Input order is kept
// among siblings. A reply whose parent is absent from the input is dropped.
func BuildThread(comments []*models.Comment) []*models.Comment {
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}

	roots := []*models.Comment{}
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots
}
