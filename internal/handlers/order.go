package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/jaanutuni/internal/models"
	"github.com/example/jaanutuni/internal/services"
	"github.com/example/jaanutuni/pkg/rabbitmq"
)

// OrderHandler manages cart checkouts and order management.
type OrderHandler struct {
	db       *gorm.DB
	mq       *rabbitmq.Client
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler. mq may be nil when RabbitMQ
// is not configured.
func NewOrderHandler(db *gorm.DB, mq *rabbitmq.Client, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, mq: mq, telegram: telegram}
}

type saveCartRequest struct {
	// The storefront has always sent the owner as "usernamep".
	Username     string           `json:"usernamep"`
	DiscountCode string           `json:"discountCode"`
	CartItems    models.CartItems `json:"cartItems"`
	Address      string           `json:"address"`
	Phone        string           `json:"phone"`
	Bkash        string           `json:"bkash"`
}

// SaveCart persists a checkout. The order number is max+1 over the
// user's existing records, computed inside the insert transaction; the
// unique (username, order_number) index makes concurrent duplicates
// impossible.
func (h *OrderHandler) SaveCart(c *fiber.Ctx) error {
	var req saveCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" {
		return fiber.NewError(fiber.StatusBadRequest, "usernamep is required")
	}

	record := models.CartRecord{
		Username:     req.Username,
		Items:        req.CartItems,
		DiscountCode: req.DiscountCode,
		Status:       models.OrderActive,
		Address:      req.Address,
		Phone:        req.Phone,
		BkashTCode:   req.Bkash,
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		var maxNumber int64
		if err := tx.Model(&models.CartRecord{}).
			Where("username = ?", req.Username).
			Select("COALESCE(MAX(order_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}

		record.OrderNumber = int(maxNumber) + 1
		return tx.Create(&record).Error
	}); err != nil {
		return err
	}

	// Redeeming an unknown code is not an error; the checkout already
	// went through.
	if req.DiscountCode != "" {
		result := h.db.Model(&models.DiscountCode{}).
			Where("code = ?", req.DiscountCode).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
		if result.Error != nil {
			return result.Error
		}
	}

	go h.notifyOrderCreated(record)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Cart saved and discount code usage updated successfully",
		"order":   record.OrderNumber,
		"id":      record.ID,
	})
}

// notifyOrderCreated publishes the order event and pings the admin chat.
// Both are best-effort.
func (h *OrderHandler) notifyOrderCreated(record models.CartRecord) {
	if h.mq != nil {
		event := map[string]interface{}{
			"event":    "order.created",
			"id":       record.ID,
			"username": record.Username,
			"order":    record.OrderNumber,
			"status":   record.Status,
		}
		if err := h.mq.PublishOrderCreated(event); err != nil {
			log.Printf("[Order] Failed to publish order event for #%d: %v", record.OrderNumber, err)
		}
	}

	if h.telegram != nil {
		notification := services.OrderNotification{
			Username:     record.Username,
			OrderNumber:  record.OrderNumber,
			ItemCount:    len(record.Items),
			DiscountCode: record.DiscountCode,
			Address:      record.Address,
			Phone:        record.Phone,
			PaymentRef:   record.BkashTCode,
		}
		if err := h.telegram.NotifyNewOrder(notification); err != nil {
			log.Printf("[Order] Telegram notification failed: %v", err)
		}
	}
}

// ListAll returns every cart record.
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	var records []models.CartRecord
	if err := h.db.Order("id").Find(&records).Error; err != nil {
		return err
	}

	if records == nil {
		records = []models.CartRecord{}
	}

	return c.JSON(records)
}

// ListForUser returns the flattened item list across all of a user's
// checkouts.
func (h *OrderHandler) ListForUser(c *fiber.Ctx) error {
	username := c.Params("username")

	var records []models.CartRecord
	if err := h.db.Where("username = ?", username).Order("id").Find(&records).Error; err != nil {
		return err
	}

	if len(records) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "No items found for this user")
	}

	items := models.CartItems{}
	for _, record := range records {
		items = append(items, record.Items...)
	}

	return c.JSON(fiber.Map{"items": items})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order between Active, Complete and Cancelled.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	username := c.Params("username")
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.Status {
	case models.OrderActive, models.OrderComplete, models.OrderCancelled:
	default:
		return fiber.NewError(fiber.StatusBadRequest,
			"Invalid or missing status. Valid values are Active, Complete, and Cancelled.")
	}

	var record models.CartRecord
	if err := h.db.Where("id = ? AND username = ?", id, username).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Order not found for this user")
		}
		return err
	}

	if err := h.db.Model(&record).Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(record)
}
