package web

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// tokenMiddleware guards the sync trigger with the configured shared token.
func (s *Service) tokenMiddleware(c *fiber.Ctx) error {
	token := s.cfg.Sync.TriggerToken
	if token == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "sync trigger is not configured",
		})
	}

	presented := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), bearerPrefix)

	if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid token",
		})
	}

	return c.Next()
}
