package server

import (
	"tasklink/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags returns the configured flags evaluated for the caller. An
// anonymous caller sees partial rollouts as off.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := middleware.UserIDFromLocals(c)
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(userID),
	})
}
