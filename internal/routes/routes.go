package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/store/internal/config"
	"github.com/example/store/internal/handlers"
	"github.com/example/store/internal/middleware"
	"github.com/example/store/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	adminService := services.NewAdminService(db)
	customerService := services.NewCustomerService(db)
	orderService := services.NewOrderService(db)

	authHandler := handlers.NewAuthHandler(adminService, cfg)
	adminHandler := handlers.NewAdminHandler(db)
	customerHandler := handlers.NewCustomerHandler(db, customerService)
	orderHandler := handlers.NewOrderHandler(db, orderService)

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	adminAPI := api.Group("/admin")
	adminAPI.Post("/login", authHandler.Login)

	// Protected routes
	protected := adminAPI.Group("", middleware.AdminAuth(cfg, adminService))

	protected.Get("/", adminHandler.Index)
	protected.Get("/dashboard", adminHandler.DashboardStats)
	protected.Get("/recent-orders", adminHandler.RecentOrders)

	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.ListCustomers)
	customers.Post("/", customerHandler.CreateCustomer)
	customers.Get("/:id", customerHandler.GetCustomer)
	customers.Patch("/:id", customerHandler.UpdateCustomer)
	customers.Delete("/:id", customerHandler.DeleteCustomer)

	orders := protected.Group("/orders")
	orders.Get("/", orderHandler.ListOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id", orderHandler.UpdateOrder)
	orders.Delete("/:id", orderHandler.DeleteOrder)
}
