package models

import "time"

// Product is a catalog entry. IDs are database-generated sequences so
// concurrent creates can never collide.
//
// Views keeps its legacy wire name "number": the storefront was built
// against that field and still reads it.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	Stock     float64   `json:"stock"`
	Views     int64     `json:"number"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
