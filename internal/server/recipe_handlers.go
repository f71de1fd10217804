package server

import (
	"petchef/internal/models"
	"petchef/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListRecipes handles GET /api/recipes
// @Summary List recipes
// @Description Newest first. Filters combine with AND; search matches title or ingredients case-sensitively.
// @Tags recipes
// @Produce json
// @Param petType query string false "dog or cat"
// @Param category query string false "meat, poultry, fish or treats"
// @Param cookingType query string false "raw, cooked, baked or mixed"
// @Param search query string false "Substring of title or ingredients"
// @Param userId query int false "Author ID"
// @Param page query int false "1-indexed page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {array} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes [get]
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	filter := models.RecipeFilter{
		PetType:     models.PetType(c.Query("petType")),
		Category:    models.RecipeCategory(c.Query("category")),
		CookingType: models.CookingType(c.Query("cookingType")),
		Search:      c.Query("search"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", models.DefaultRecipePageSize),
	}
	if uid := c.QueryInt("userId", 0); uid > 0 {
		filter.UserID = uint(uid)
	}

	recipes, err := s.recipeService.ListRecipes(c.UserContext(), filter)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipes)
}

// GetRecipe handles GET /api/recipes/:id
// @Summary Get a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	recipe, err := s.recipeService.GetRecipe(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipe)
}

// CreateRecipe handles POST /api/recipes
// @Summary Publish a recipe
// @Tags recipes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateRecipeInput true "Recipe"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes [post]
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}

	var req service.CreateRecipeInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}
	req.UserID = userID

	url, err := s.uploads.Save(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if url != "" {
		req.ImageURL = ptr(url)
	}

	recipe, err := s.recipeService.CreateRecipe(c.UserContext(), req)
	if err != nil {
		s.uploads.Discard(c.UserContext(), url)
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// UpdateRecipe handles PUT /api/recipes/:id
// @Summary Update own recipe
// @Tags recipes
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body models.RecipeUpdate true "Fields to change"
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [put]
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req models.RecipeUpdate
	if err := bindBody(c, &req); err != nil {
		return nil
	}
	url, err := s.uploads.Save(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if url != "" {
		req.ImageURL = ptr(url)
	}

	recipe, err := s.recipeService.UpdateRecipe(c.UserContext(), userID, recipeID, req)
	if err != nil {
		s.uploads.Discard(c.UserContext(), url)
		return respondServiceError(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
// @Summary Delete own recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.recipeService.DeleteRecipe(c.UserContext(), userID, recipeID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Recipe deleted"})
}

// CookRecipe handles POST /api/recipes/:id/cook
// @Summary Mark a recipe as cooked
// @Description Atomically increments the cook counter
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/cook [post]
func (s *Server) CookRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	recipe, err := s.recipeService.Cook(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipe)
}
