// Package auth guards routes with a shared API key.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Header is read for the key.
const Header = "X-API-Key"

// Config configures the middleware.
type Config struct {
	// ApiKey disables the check when empty.
	ApiKey string
	// Skip lets selected requests through unchecked.
	Skip func(c *fiber.Ctx) bool
}

// New returns a handler rejecting requests without the configured key.
func New(cfg Config) fiber.Handler {
	key := []byte(cfg.ApiKey)
	return func(c *fiber.Ctx) error {
		if len(key) == 0 || (cfg.Skip != nil && cfg.Skip(c)) {
			return c.Next()
		}
		if subtle.ConstantTimeCompare([]byte(c.Get(Header)), key) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	}
}
