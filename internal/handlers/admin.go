package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/store/internal/admin"
	"github.com/example/store/internal/middleware"
	"github.com/example/store/internal/models"
)

// AdminHandler serves the admin index and dashboard.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// Index lists the registered record types with their list configuration.
func (h *AdminHandler) Index(c *fiber.Ctx) error {
	metas := make([]admin.Meta, 0, len(admin.Site))
	for _, registered := range admin.Site {
		metas = append(metas, registered.Meta())
	}

	resp := fiber.Map{"success": true, "data": metas}
	if current, ok := middleware.CurrentAdmin(c); ok {
		resp["admin"] = current.Username
	}
	return c.JSON(resp)
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	db := h.db.WithContext(c.UserContext())

	var totalCustomers int64
	if err := db.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var statusCounts []statusCount
	if err := db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		ordersByStatus[string(status)] = 0
	}
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	// Revenue excludes cancelled orders.
	totalRevenue, err := h.revenue(db, time.Time{})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayRevenue, err := h.revenue(db, today)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_customers":  totalCustomers,
			"total_orders":     totalOrders,
			"total_revenue":    totalRevenue.StringFixed(2),
			"today_revenue":    todayRevenue.StringFixed(2),
			"orders_by_status": ordersByStatus,
		},
	})
}

func (h *AdminHandler) revenue(db *gorm.DB, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Revenue decimal.Decimal
	}

	query := db.Model(&models.Order{}).Where("status <> ?", models.OrderStatusCancelled)
	if !since.IsZero() {
		query = query.Where("order_date >= ?", since)
	}
	if err := query.Select("COALESCE(SUM(total_amount), 0) AS revenue").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Revenue, nil
}

// RecentOrders returns the five most recent orders for the dashboard.
func (h *AdminHandler) RecentOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.db.WithContext(c.UserContext()).Preload("Customer").
		Order("order_date desc, id desc").
		Limit(5).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
	})
}
