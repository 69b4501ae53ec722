package handlers

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/jaanutuni/internal/models"
	"github.com/example/jaanutuni/internal/services"
	"github.com/example/jaanutuni/internal/utils"
)

// ProductHandler manages the product catalog.
type ProductHandler struct {
	db       *gorm.DB
	images   *services.ImageStore
	exporter *services.ProductExporter
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, images *services.ImageStore, exporter *services.ProductExporter) *ProductHandler {
	return &ProductHandler{db: db, images: images, exporter: exporter}
}

// CreateProduct handles multipart product creation with an image upload.
// The image is stored before the database insert; the snapshot append
// happens last so a validation failure persists nothing anywhere.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	priceRaw := c.FormValue("price")
	category := c.FormValue("category")
	stockRaw := c.FormValue("stock")

	file, fileErr := c.FormFile("image")
	if name == "" || priceRaw == "" || category == "" || stockRaw == "" || fileErr != nil {
		return fiber.NewError(fiber.StatusBadRequest, "All fields are required.")
	}

	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid price")
	}

	stock, err := strconv.ParseFloat(stockRaw, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid stock")
	}

	src, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to read image upload")
	}
	defer src.Close()

	imagePath, err := h.images.Save(src, file.Filename)
	if err != nil {
		return err
	}

	product := models.Product{
		Name:     name,
		Price:    price,
		Category: category,
		Stock:    stock,
		Views:    0,
		Image:    imagePath,
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	if err := h.exporter.Append(product); err != nil {
		// The database is the source of truth; a stale snapshot is
		// rebuilt by /export-products.
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added successfully",
		"product": product,
	})
}

// ListProducts returns the catalog from the database. All three legacy
// list paths route here so there is a single source of truth.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Order("id")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if pg.Limit > 0 {
		query = query.Limit(pg.Limit).Offset(pg.Offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return err
	}

	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(products)
}

type stockUpdateRequest struct {
	Stock *float64 `json:"stock"`
}

// UpdateStockByID sets the stock of the product with the given id.
func (h *ProductHandler) UpdateStockByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req stockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Stock == nil || *req.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid stock value.")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Product not found.")
		}
		return err
	}

	if err := h.db.Model(&product).Update("stock", *req.Stock).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Stock updated successfully",
		"product": product,
	})
}

// UpdateStockByName sets the stock of the first product matching the
// given name. Names are not unique, so at most one record changes.
func (h *ProductHandler) UpdateStockByName(c *fiber.Ctx) error {
	name := c.Params("name")

	var req stockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Stock == nil || *req.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid stock value.")
	}

	var product models.Product
	if err := h.db.Where("name = ?", name).Order("id").First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Product not found.")
		}
		return err
	}

	if err := h.db.Model(&product).Update("stock", *req.Stock).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Stock updated successfully!",
		"product": product,
	})
}

type incrementViewsRequest struct {
	ProductName string `json:"productName"`
}

// IncrementViews bumps the view counter for a product by name. The
// increment runs in SQL so concurrent views never lose updates.
func (h *ProductHandler) IncrementViews(c *fiber.Ctx) error {
	var req incrementViewsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.ProductName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Product name is required")
	}

	result := h.db.Model(&models.Product{}).
		Where("name = ?", req.ProductName).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	var product models.Product
	if err := h.db.Where("name = ?", req.ProductName).Order("id").First(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product views incremented",
		"product": product,
	})
}

// ExportProducts rebuilds the products.json snapshot from the database.
func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	count, err := h.exporter.Export()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Products exported successfully",
		"count":   count,
	})
}

// GetImage serves a stored product image by name.
func (h *ProductHandler) GetImage(c *fiber.Ctx) error {
	name := c.Params("imageName")

	data, err := h.images.Read(name)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Image not found")
		}
		return err
	}

	if ext := filepath.Ext(name); ext != "" {
		c.Type(strings.TrimPrefix(ext, "."))
	}
	return c.Send(data)
}
