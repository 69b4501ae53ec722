package models

import "time"

// Order status values accepted by the order-management flow.
const (
	OrderActive    = "Active"
	OrderComplete  = "Complete"
	OrderCancelled = "Cancelled"
)

// CartItems is the schemaless item payload sent by the storefront at
// checkout. It is persisted as JSON verbatim; the backend never inspects
// individual item fields.
type CartItems []map[string]interface{}

// CartRecord is one checkout for one user. The owner is an explicit
// indexed column and order numbers are unique per owner, which lets the
// database reject duplicate numbers from concurrent checkouts.
type CartRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex:idx_cart_owner_number;index" json:"username"`
	OrderNumber  int       `gorm:"uniqueIndex:idx_cart_owner_number" json:"order"`
	Items        CartItems `gorm:"serializer:json" json:"items"`
	DiscountCode string    `json:"discountCode"`
	Status       string    `json:"status"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	BkashTCode   string    `json:"bkashTCode"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
