package service

import (
	"context"
	"strings"

	"petchef/internal/models"
	"petchef/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
}

type CreateCommentInput struct {
	UserID   uint
	RecipeID uint
	ParentID *uint
	Content  string
}

func NewCommentService(commentRepo repository.CommentRepository, recipeRepo repository.RecipeRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
	}
}

// CreateComment adds a comment, or a reply when ParentID is set. A reply's
// parent must be a comment on the same recipe.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, models.NewFieldValidationError("content", "Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewFieldValidationError("content", "Comment too long (max 10000 characters)")
	}

	ctx = repository.UsePrimary(ctx)
	if _, err := s.recipeRepo.GetByID(ctx, in.RecipeID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.RecipeID != in.RecipeID {
			return nil, models.NewFieldValidationError("parentId", "Parent comment belongs to a different recipe")
		}
	}

	comment := &models.Comment{
		UserID:   in.UserID,
		RecipeID: in.RecipeID,
		ParentID: in.ParentID,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the top-level comments on a recipe.
func (s *CommentService) ListComments(ctx context.Context, recipeID uint) ([]*models.Comment, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListTopLevel(ctx, recipeID)
}

func (s *CommentService) ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, commentID)
}

// Thread returns the recipe's full comment tree.
func (s *CommentService) Thread(ctx context.Context, recipeID uint) ([]*models.Comment, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListThread(ctx, recipeID)
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(repository.UsePrimary(ctx), commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
