package models

// Discount status values.
const (
	DiscountActive   = "Active"
	DiscountInactive = "Inactive"
)

// DiscountCode is a redeemable promotional code, usually tied to a
// celebrity campaign. Value is either a percentage or a fixed amount;
// the storefront decides how to apply it.
type DiscountCode struct {
	BaseModel
	Code          string  `gorm:"uniqueIndex" json:"discountCode"`
	CelebrityName string  `json:"celebrityName"`
	UsageCount    int64   `json:"usageCount"`
	Value         float64 `json:"value"`
	Status        string  `json:"status"`
}
