package repository

import (
	"context"

	"petchef/internal/models"
)

// FavoriteRepository defines persistence operations for favorites.
type FavoriteRepository interface {
	IsFavorite(ctx context.Context, userID, recipeID uint) (bool, error)
	Add(ctx context.Context, userID, recipeID uint) (*models.Favorite, error)
	Remove(ctx context.Context, userID, recipeID uint) error
	ListRecipes(ctx context.Context, userID uint) ([]models.Recipe, error)
	CountForRecipe(ctx context.Context, recipeID uint) (int64, error)
}

type favoriteRepository struct {
	base
}

func (r *favoriteRepository) IsFavorite(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.readDB(ctx).WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Add relies on the (user_id, recipe_id) unique index to reject repeats.
func (r *favoriteRepository) Add(ctx context.Context, userID, recipeID uint) (*models.Favorite, error) {
	fav := &models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := r.db.WithContext(ctx).Omit("User", "Recipe").Create(fav).Error; err != nil {
		switch {
		case isUniqueConstraintError(err):
			return nil, models.NewDuplicateKeyError("Recipe already in favorites", err)
		case isForeignKeyError(err):
			return nil, r.missingReference(ctx,
				reference{"users", "User", userID},
				reference{"recipes", "Recipe", recipeID})
		default:
			return nil, models.NewInternalError(err)
		}
	}
	return fav, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.AppError{Code: models.CodeNotFound, Message: "Recipe is not in favorites"}
	}
	return nil
}

// ListRecipes returns the recipes the user favorited, most recently favorited first.
func (r *favoriteRepository) ListRecipes(ctx context.Context, userID uint) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	err := withDetails(r.readDB(ctx).WithContext(ctx)).
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, favorites.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *favoriteRepository) CountForRecipe(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	err := r.readDB(ctx).WithContext(ctx).Model(&models.Favorite{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
