package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/store/internal/config"
	"github.com/example/store/internal/services"
	"github.com/example/store/internal/utils"
)

// AuthHandler issues admin tokens.
type AuthHandler struct {
	admins *services.AdminService
	cfg    *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(admins *services.AdminService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{admins: admins, cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	admin, err := h.admins.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, admin.ID, admin.Username, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"admin": fiber.Map{
			"id":       admin.ID,
			"username": admin.Username,
		},
		"token":      token,
		"expires_in": int64(h.cfg.TokenExpires.Seconds()),
	})
}
