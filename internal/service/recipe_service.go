package service

import (
	"context"
	"net/url"
	"strings"

	"petchef/internal/models"
	"petchef/internal/observability"
	"petchef/internal/repository"
	"petchef/internal/validation"
)

type RecipeService struct {
	recipeRepo repository.RecipeRepository
}

// CreateRecipeInput is the insertion contract for a recipe. It has no
// cook count or id: both are assigned by the store.
type CreateRecipeInput struct {
	UserID       uint                  `json:"-"`
	Title        string                `json:"title" form:"title" validate:"required,max=200"`
	Ingredients  string                `json:"ingredients" form:"ingredients" validate:"required"`
	Instructions string                `json:"instructions" form:"instructions" validate:"required"`
	PetType      models.PetType        `json:"petType" form:"petType" validate:"required,pettype"`
	Category     models.RecipeCategory `json:"category" form:"category" validate:"required,category"`
	CookingType  models.CookingType    `json:"cookingType" form:"cookingType" validate:"required,cookingtype"`
	PrepTime     int                   `json:"prepTime" form:"prepTime" validate:"required,gt=0"`
	ImageURL     *string               `json:"imageUrl,omitempty" form:"imageUrl" validate:"omitempty,max=500"`
	YoutubeURL   *string               `json:"youtubeUrl,omitempty" form:"youtubeUrl" validate:"omitempty,url,max=500"`
}

func NewRecipeService(recipeRepo repository.RecipeRepository) *RecipeService {
	return &RecipeService{recipeRepo: recipeRepo}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.YoutubeURL != nil && !isYouTubeURL(*in.YoutubeURL) {
		return nil, models.NewFieldValidationError("youtubeUrl", "youtubeUrl must be a valid YouTube URL")
	}

	recipe := &models.Recipe{
		UserID:       in.UserID,
		Title:        in.Title,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		PetType:      in.PetType,
		Category:     in.Category,
		CookingType:  in.CookingType,
		PrepTime:     in.PrepTime,
		ImageURL:     in.ImageURL,
		YoutubeURL:   in.YoutubeURL,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(repository.UsePrimary(ctx), recipe.ID)
}

func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id)
}

// ListRecipes rejects unknown enum filters instead of silently matching nothing.
func (s *RecipeService) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error) {
	if filter.PetType != "" && !filter.PetType.Valid() {
		return nil, models.NewFieldValidationError("petType", "petType must be one of dog, cat")
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, models.NewFieldValidationError("category", "category must be one of meat, poultry, fish, treats")
	}
	if filter.CookingType != "" && !filter.CookingType.Valid() {
		return nil, models.NewFieldValidationError("cookingType", "cookingType must be one of raw, cooked, baked, mixed")
	}
	return s.recipeRepo.List(ctx, filter.Normalize())
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, in models.RecipeUpdate) (*models.Recipe, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.YoutubeURL != nil && !isYouTubeURL(*in.YoutubeURL) {
		return nil, models.NewFieldValidationError("youtubeUrl", "youtubeUrl must be a valid YouTube URL")
	}
	if _, err := s.ownedRecipe(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	return s.recipeRepo.Update(ctx, recipeID, in)
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.ownedRecipe(ctx, userID, recipeID); err != nil {
		return err
	}
	return s.recipeRepo.Delete(ctx, recipeID)
}

// Cook records that someone prepared the recipe and returns it with the new count.
func (s *RecipeService) Cook(ctx context.Context, recipeID uint) (recipe *models.Recipe, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "RecipeService", "Cook")
	defer func() { observability.EndSpan(span, err) }()

	recipe, err = s.recipeRepo.IncrementCookCount(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, models.NewNotFoundError("Recipe", recipeID)
	}
	observability.RecipesCooked.Inc()
	return recipe, nil
}

func (s *RecipeService) ownedRecipe(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(repository.UsePrimary(ctx), recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own recipes")
	}
	return recipe, nil
}

// isYouTubeURL returns true if u is a YouTube watch or embed URL.
func isYouTubeURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}
