package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/jaanutuni/internal/models"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.CartRecord{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	var totalDiscounts int64
	if err := h.db.Model(&models.DiscountCode{}).Count(&totalDiscounts).Error; err != nil {
		return err
	}

	// Orders by status
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.CartRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var totalViews int64
	if err := h.db.Model(&models.Product{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&totalViews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_users":      totalUsers,
		"total_products":   totalProducts,
		"total_orders":     totalOrders,
		"total_discounts":  totalDiscounts,
		"total_views":      totalViews,
		"orders_by_status": ordersByStatus,
	})
}
