package server

import (
	"petchef/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// FeatureFlagsResponse lists configured rules and their evaluation for the caller.
type FeatureFlagsResponse struct {
	Raw       map[string]string `json:"raw"`
	Evaluated map[string]bool   `json:"evaluated"`
}

// GetFeatureFlags handles GET /api/feature-flags
// @Summary Feature flags
// @Description Percentage rollouts are evaluated for the caller when a session is presented
// @Tags feature-flags
// @Produce json
// @Success 200 {object} FeatureFlagsResponse
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := currentUserOrAnonymous(c)
	return c.JSON(FeatureFlagsResponse{
		Raw:       s.featureFlags.Raw(),
		Evaluated: s.featureFlags.Snapshot(userID),
	})
}

// currentUserOrAnonymous returns the caller attached by OptionalAuth, or 0.
func currentUserOrAnonymous(c *fiber.Ctx) (uint, bool) {
	return middleware.CurrentUserID(c)
}
