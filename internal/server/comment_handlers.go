package server

import (
	"petchef/internal/featureflags"
	"petchef/internal/models"
	"petchef/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the body of POST /recipes/:id/comments.
type CreateCommentRequest struct {
	Content  string `json:"content" form:"content"`
	ParentID *uint  `json:"parentId,omitempty" form:"parentId"`
}

// ListComments handles GET /api/recipes/:id/comments
// @Summary List comments on a recipe
// @Description Top-level comments newest first. view=thread nests every reply under its parent.
// @Tags comments
// @Produce json
// @Param id path int true "Recipe ID"
// @Param view query string false "thread"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/comments [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID, _ := currentUserOrAnonymous(c)
	var comments []*models.Comment
	if c.Query("view") == "thread" && s.featureFlags.Enabled(featureflags.CommentThreads, userID) {
		comments, err = s.commentService.Thread(c.UserContext(), recipeID)
	} else {
		comments, err = s.commentService.ListComments(c.UserContext(), recipeID)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// ListReplies handles GET /api/comments/:id/replies
// @Summary Direct replies to a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id}/replies [get]
func (s *Server) ListReplies(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	replies, err := s.commentService.ListReplies(c.UserContext(), commentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(replies)
}

// CreateComment handles POST /api/recipes/:id/comments
// @Summary Comment on a recipe
// @Description A parentId makes the comment a reply; replies need the comment_threads flag.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req CreateCommentRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}
	if req.ParentID != nil && !s.featureFlags.Enabled(featureflags.CommentThreads, userID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Replies are disabled"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:   userID,
		RecipeID: recipeID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete own comment
// @Description Replies to the comment are removed with it
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.commentService.DeleteComment(c.UserContext(), userID, commentID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
