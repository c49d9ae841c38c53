package middleware

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/productdigest/content-api/configs"
	"github.com/productdigest/content-api/pkg/utils"
)

type CronAuthMiddleware struct {
	cfg config.Config
}

func NewCronAuthMiddleware(cfg config.Config) *CronAuthMiddleware {
	return &CronAuthMiddleware{cfg: cfg}
}

// CronAuth guards the publish-due endpoint. The caller presents either the
// shared secret itself or a short-lived token signed with it. Anything else
// is rejected before a single row can move.
func (m *CronAuthMiddleware) CronAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || token == "" || m.cfg.CronSecret == "" {
			return m.reject(c)
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.cfg.CronSecret)) == 1 {
			return c.Next()
		}
		if err := utils.ValidateCronToken(m.cfg.CronSecret, token); err == nil {
			return c.Next()
		}
		return m.reject(c)
	}
}

func (m *CronAuthMiddleware) reject(c *fiber.Ctx) error {
	slog.Warn("unauthorized publish-due attempt", "ip", c.IP())
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}
