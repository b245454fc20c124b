package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/store/internal/config"
	"github.com/example/store/internal/models"
	"github.com/example/store/internal/services"
	"github.com/example/store/internal/utils"
)

const adminContextKey = "currentAdmin"

// AdminAuth validates bearer tokens and loads the active admin into context.
func AdminAuth(cfg *config.Config, admins *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		adminID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		admin, err := admins.Active(c.UserContext(), adminID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(adminContextKey, admin)
		return c.Next()
	}
}

// CurrentAdmin extracts the authenticated admin from context.
func CurrentAdmin(c *fiber.Ctx) (*models.AdminUser, bool) {
	admin, ok := c.Locals(adminContextKey).(*models.AdminUser)
	return admin, ok && admin != nil
}
