package service

import (
	"context"

	"petchef/internal/models"
	"petchef/internal/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	recipeRepo   repository.RecipeRepository
	userRepo     repository.UserRepository
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		recipeRepo:   recipeRepo,
		userRepo:     userRepo,
	}
}

func (s *FavoriteService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Favorite, error) {
	ctx = repository.UsePrimary(ctx)
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return nil, err
	}
	return s.favoriteRepo.Add(ctx, userID, recipeID)
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.favoriteRepo.Remove(ctx, userID, recipeID)
}

// IsFavorite reports NotFound for a recipe that does not exist.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, recipeID uint) (bool, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		return false, err
	}
	return s.favoriteRepo.IsFavorite(ctx, userID, recipeID)
}

// ListFavorites returns the user's favorite recipes, most recent first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uint) ([]models.Recipe, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.favoriteRepo.ListRecipes(ctx, userID)
}

type FollowService struct {
	followerRepo repository.FollowerRepository
	userRepo     repository.UserRepository
}

func NewFollowService(followerRepo repository.FollowerRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followerRepo: followerRepo, userRepo: userRepo}
}

// Follow makes followerID follow targetID. Following yourself is always
// rejected, whether or not the target exists.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) (*models.Follower, error) {
	if followerID == targetID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(repository.UsePrimary(ctx), targetID); err != nil {
		return nil, err
	}
	return s.followerRepo.Follow(ctx, followerID, targetID)
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	return s.followerRepo.Unfollow(ctx, followerID, targetID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}
	return s.followerRepo.IsFollowing(ctx, followerID, targetID)
}

func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followerRepo.ListFollowers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followerRepo.ListFollowing(ctx, userID)
}
