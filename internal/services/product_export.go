package services

import (
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/example/jaanutuni/internal/models"
)

// ProductExporter maintains the products.json snapshot. The file is a
// derived artifact rebuilt from the database; nothing reads it back as a
// live listing source.
type ProductExporter struct {
	db   *gorm.DB
	path string
}

// NewProductExporter constructs a ProductExporter writing to path.
func NewProductExporter(db *gorm.DB, path string) *ProductExporter {
	return &ProductExporter{db: db, path: path}
}

// Path returns the snapshot file location.
func (e *ProductExporter) Path() string {
	return e.path
}

// Export dumps the full product table to the snapshot file, overwriting
// any previous content.
func (e *ProductExporter) Export() (int, error) {
	var products []models.Product
	if err := e.db.Order("id").Find(&products).Error; err != nil {
		return 0, fmt.Errorf("failed to load products: %w", err)
	}

	if products == nil {
		products = []models.Product{}
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal products: %w", err)
	}

	if err := os.WriteFile(e.path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write snapshot: %w", err)
	}

	return len(products), nil
}

// Append adds a single product to the snapshot without touching the rest
// of the file. A missing or corrupt snapshot is treated as empty.
func (e *ProductExporter) Append(product models.Product) error {
	var products []models.Product
	if data, err := os.ReadFile(e.path); err == nil {
		if err := json.Unmarshal(data, &products); err != nil {
			products = nil
		}
	}

	products = append(products, product)

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	if err := os.WriteFile(e.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}
