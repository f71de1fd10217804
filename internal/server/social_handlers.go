package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFavoriteStatus handles GET /api/recipes/:id/favorite
// @Summary Is the recipe in my favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{isFavorite=bool}
// @Router /recipes/{id}/favorite [get]
func (s *Server) GetFavoriteStatus(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ok, err := s.favoriteService.IsFavorite(c.UserContext(), userID, recipeID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"isFavorite": ok})
}

// AddFavorite handles POST /api/recipes/:id/favorite
// @Summary Favorite a recipe
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.Favorite
// @Failure 400 {object} models.ErrorResponse "Already favorited"
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/favorite [post]
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	fav, err := s.favoriteService.AddFavorite(c.UserContext(), userID, recipeID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

// RemoveFavorite handles DELETE /api/recipes/:id/favorite
// @Summary Unfavorite a recipe
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/favorite [delete]
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.favoriteService.RemoveFavorite(c.UserContext(), userID, recipeID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Favorite removed"})
}

// GetUserFavorites handles GET /api/users/:id/favorites
// @Summary A user's favorite recipes
// @Tags favorites
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/favorites [get]
func (s *Server) GetUserFavorites(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	recipes, err := s.favoriteService.ListFavorites(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipes)
}

// GetFollowStatus handles GET /api/users/:id/follow
// @Summary Do I follow this user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{isFollowing=bool}
// @Router /users/{id}/follow [get]
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ok, err := s.followService.IsFollowing(c.UserContext(), userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"isFollowing": ok})
}

// FollowUser handles POST /api/users/:id/follow
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 201 {object} models.Follower
// @Failure 400 {object} models.ErrorResponse "Self-follow or already following"
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	follow, err := s.followService.Follow(c.UserContext(), userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// UnfollowUser handles DELETE /api/users/:id/follow
// @Summary Unfollow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.followService.Unfollow(c.UserContext(), userID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// GetFollowers handles GET /api/users/:id/followers
// @Summary Users following this user
// @Tags follows
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.followService.Followers(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
// @Summary Users this user follows
// @Tags follows
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.followService.Following(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}
