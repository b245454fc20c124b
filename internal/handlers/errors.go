package handlers

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/example/store/internal/services"
	"github.com/example/store/internal/validation"
)

// ErrorHandler renders every error returned by a handler as the JSON envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "validation failed",
			"fields":  fieldErrs,
		})
	}

	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code, message = fiberErr.Code, fiberErr.Message
	case errors.Is(err, services.ErrNotFound):
		code, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		code, message = fiber.StatusUnauthorized, err.Error()
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// filterParams returns the query parameters that are not search or paging controls.
func filterParams(c *fiber.Ctx) map[string]string {
	filters := map[string]string{}
	for key, value := range c.Queries() {
		switch key {
		case "q", "page", "limit":
			continue
		}
		filters[key] = value
	}
	return filters
}
