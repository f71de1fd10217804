package server

import (
	"petchef/internal/middleware"
	"petchef/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users?q=
// @Summary Search users
// @Description Case-insensitive username search; empty q lists users alphabetically
// @Tags users
// @Produce json
// @Param q query string false "Username fragment"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	users, err := s.userService.Search(c.UserContext(), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Public user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserProfile
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.userService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/profile
// @Summary Update own profile
// @Description Partial update; a multipart "image" file replaces the profile picture
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body models.UserUpdate true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/profile [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}

	var req models.UserUpdate
	if err := bindBody(c, &req); err != nil {
		return nil
	}
	url, err := s.uploads.Save(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if url != "" {
		req.ProfileImageURL = ptr(url)
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		s.uploads.Discard(c.UserContext(), url)
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/profile
// @Summary Delete own account
// @Description Removes the account with its pets, recipes, comments, favorites and follows
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /users/profile [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	if err := s.userService.DeleteAccount(c.UserContext(), userID); err != nil {
		return respondServiceError(c, err)
	}
	// Outstanding tokens now resolve to a missing user; revoke this one explicitly.
	_ = s.sessions.Revoke(c.UserContext(), middleware.BearerToken(c))
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
