package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/store/internal/admin"
	"github.com/example/store/internal/services"
	"github.com/example/store/internal/utils"
)

// CustomerHandler serves the customer change list and record editing.
type CustomerHandler struct {
	db        *gorm.DB
	customers *services.CustomerService
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(db *gorm.DB, customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{db: db, customers: customers}
}

// ListCustomers returns the customer change list, optionally searched with ?q=.
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	list, err := admin.Customers.ChangeList(c.UserContext(), h.db, admin.Params{
		Search:     c.Query("q"),
		Filters:    filterParams(c),
		Pagination: pg,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    list,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    list.Total,
		},
	})
}

// CreateCustomer registers a new customer.
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req services.CustomerInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customer, err := h.customers.Create(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": customer})
}

// GetCustomer returns a single customer with its orders.
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	customer, err := h.customers.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": customer})
}

// UpdateCustomer applies a partial edit.
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req services.CustomerPatch
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customer, err := h.customers.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": customer})
}

// DeleteCustomer removes a customer and, with it, all of its orders.
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	removed, err := h.customers.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             id,
			"deleted_orders": removed,
		},
	})
}
