package repository

import (
	"context"
	"fmt"

	"petchef/internal/models"
	"petchef/internal/observability"

	"gorm.io/gorm"
)

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error)
	Update(ctx context.Context, id uint, update models.RecipeUpdate) (*models.Recipe, error)
	Delete(ctx context.Context, id uint) error
	IncrementCookCount(ctx context.Context, id uint) (*models.Recipe, error)
}

type recipeRepository struct {
	base
}

const recipeColumnsWithCounts = "recipes.*, " +
	"(SELECT COUNT(*) FROM favorites WHERE favorites.recipe_id = recipes.id) AS favorites_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.recipe_id = recipes.id) AS comments_count"

// withDetails selects the computed counts and preloads the author.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Recipe{}).
		Select(recipeColumnsWithCounts).
		Preload("Author", omitPassword)
}

// Create inserts the recipe. The counter always starts at zero.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	recipe.ID = 0
	recipe.CookCount = 0
	if err := r.db.WithContext(ctx).Omit("Author").Create(recipe).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", recipe.UserID)
		}
		if isCheckConstraintError(err) {
			return models.NewValidationError("Recipe violates a field constraint")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	return r.get(ctx, r.readDB(ctx), id)
}

func (r *recipeRepository) get(ctx context.Context, db *gorm.DB, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withDetails(db.WithContext(ctx)).Where("recipes.id = ?", id).First(&recipe).Error; err != nil {
		return nil, notFoundOr(err, "Recipe", id)
	}
	return &recipe, nil
}

// List returns one page of recipes matching every supplied filter, newest first.
func (r *recipeRepository) List(ctx context.Context, filter models.RecipeFilter) (recipes []models.Recipe, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "recipes", "List")
	defer func() { observability.EndSpan(span, err) }()

	f := filter.Normalize()
	db := r.readDB(ctx)
	q := withDetails(db.WithContext(ctx))

	if f.PetType != "" {
		q = q.Where("recipes.pet_type = ?", f.PetType)
	}
	if f.Category != "" {
		q = q.Where("recipes.category = ?", f.Category)
	}
	if f.CookingType != "" {
		q = q.Where("recipes.cooking_type = ?", f.CookingType)
	}
	if f.UserID != 0 {
		q = q.Where("recipes.user_id = ?", f.UserID)
	}
	if f.Search != "" {
		q = q.Where(fmt.Sprintf("(%s OR %s)",
			substringMatch(db, "recipes.title"),
			substringMatch(db, "recipes.ingredients"),
		), f.Search, f.Search)
	}

	recipes = []models.Recipe{}
	err = q.Order("recipes.created_at DESC, recipes.id DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, id uint, update models.RecipeUpdate) (*models.Recipe, error) {
	if cols := update.Columns(); len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			if isCheckConstraintError(res.Error) {
				return nil, models.NewValidationError("Recipe violates a field constraint")
			}
			return nil, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, models.NewNotFoundError("Recipe", id)
		}
	}
	return r.get(ctx, r.db, id)
}

// Delete removes the recipe with its comments and favorites.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe", id)
	}
	return nil
}

// IncrementCookCount bumps cook_count in a single statement so concurrent
// cooks never lose an update. It returns (nil, nil) if the recipe is gone.
func (r *recipeRepository) IncrementCookCount(ctx context.Context, id uint) (*models.Recipe, error) {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("cook_count", gorm.Expr("cook_count + ?", 1))
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.get(ctx, r.db, id)
}
