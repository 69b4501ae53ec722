package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/jaanutuni/internal/models"
)

// DiscountHandler manages promotional discount codes.
type DiscountHandler struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewDiscountHandler constructs DiscountHandler.
func NewDiscountHandler(db *gorm.DB) *DiscountHandler {
	return &DiscountHandler{db: db, validate: validator.New()}
}

type addDiscountRequest struct {
	DiscountCode  string  `json:"discountCode" validate:"required"`
	CelebrityName string  `json:"celebrityName" validate:"required"`
	UsageCount    int64   `json:"usageCount" validate:"gte=0"`
	Value         float64 `json:"value" validate:"gt=0"`
	Status        string  `json:"status"`
}

// AddDiscount creates a new discount code. Status defaults to Active.
func (h *DiscountHandler) AddDiscount(c *fiber.Ctx) error {
	var req addDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid input data")
	}

	var existing models.DiscountCode
	if err := h.db.Where("code = ?", req.DiscountCode).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Discount code already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.DiscountActive
	}

	discount := models.DiscountCode{
		Code:          req.DiscountCode,
		CelebrityName: req.CelebrityName,
		UsageCount:    req.UsageCount,
		Value:         req.Value,
		Status:        status,
	}

	if err := h.db.Create(&discount).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Discount code added successfully",
		"discount": discount,
	})
}

// GetActiveDiscount looks up an Active code. Inactive codes are treated
// exactly like missing ones.
func (h *DiscountHandler) GetActiveDiscount(c *fiber.Ctx) error {
	code := c.Query("discountCode")

	var discount models.DiscountCode
	err := h.db.Where("code = ? AND status = ?", code, models.DiscountActive).
		First(&discount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Invalid or inactive discount code")
		}
		return err
	}

	return c.JSON(fiber.Map{"discounts": []models.DiscountCode{discount}})
}

// ListDiscounts returns every discount code.
func (h *DiscountHandler) ListDiscounts(c *fiber.Ctx) error {
	var discounts []models.DiscountCode
	if err := h.db.Order("created_at").Find(&discounts).Error; err != nil {
		return err
	}

	if discounts == nil {
		discounts = []models.DiscountCode{}
	}

	return c.JSON(discounts)
}

// ListDiscountsFiltered returns all codes or those matching the
// discountCode query parameter.
func (h *DiscountHandler) ListDiscountsFiltered(c *fiber.Ctx) error {
	query := h.db.Model(&models.DiscountCode{}).Order("created_at")

	if code := c.Query("discountCode"); code != "" {
		query = query.Where("code = ?", code)
	}

	var discounts []models.DiscountCode
	if err := query.Find(&discounts).Error; err != nil {
		return err
	}

	if discounts == nil {
		discounts = []models.DiscountCode{}
	}

	return c.JSON(discounts)
}

type discountStatusRequest struct {
	Status string `json:"status"`
}

// UpdateDiscountStatus overwrites the status of an existing code.
func (h *DiscountHandler) UpdateDiscountStatus(c *fiber.Ctx) error {
	code := c.Params("discountCode")

	var req discountStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	var discount models.DiscountCode
	if err := h.db.Where("code = ?", code).First(&discount).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Discount code not found.")
		}
		return err
	}

	if err := h.db.Model(&discount).Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Discount code status updated successfully."})
}

type incrementUsageRequest struct {
	Code string `json:"code"`
}

// IncrementUsage bumps the usage counter for a code. The increment runs
// in SQL so concurrent redemptions never lose updates.
func (h *DiscountHandler) IncrementUsage(c *fiber.Ctx) error {
	var req incrementUsageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result := h.db.Model(&models.DiscountCode{}).
		Where("code = ?", req.Code).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Discount code not found.")
	}

	return c.JSON(fiber.Map{"message": "Discount usage count incremented successfully."})
}
