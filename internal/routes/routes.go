package routes

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/jaanutuni/internal/config"
	"github.com/example/jaanutuni/internal/handlers"
	"github.com/example/jaanutuni/internal/middleware"
	"github.com/example/jaanutuni/internal/services"
	"github.com/example/jaanutuni/pkg/rabbitmq"
)

// ErrorHandler maps every failure to the JSON error contract:
// {"error": message} with the matching status code. Unrecognized errors
// become opaque 500s so storage details never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

// Register wires up all HTTP routes. mq may be nil when RabbitMQ is not
// configured.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, mq *rabbitmq.Client) error {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	imageStore, err := services.NewImageStore(cfg.UploadDir)
	if err != nil {
		return err
	}
	exporter := services.NewProductExporter(db, cfg.ProductsFile)

	authHandler := handlers.NewAuthHandler(db, cfg)
	passwordResetHandler := handlers.NewPasswordResetHandler(db)
	productHandler := handlers.NewProductHandler(db, imageStore, exporter)
	orderHandler := handlers.NewOrderHandler(db, mq, telegramService)
	discountHandler := handlers.NewDiscountHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	// Account routes
	app.Post("/create", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Post("/get-role", authHandler.GetRole)
	app.Get("/get-question-answer/:username", passwordResetHandler.GetSecurityQA)
	app.Put("/change-password", passwordResetHandler.ChangePassword)
	app.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Catalog routes. All list paths serve the database; the JSON
	// snapshot is write-only.
	app.Post("/products", productHandler.CreateProduct)
	app.Get("/products", productHandler.ListProducts)
	app.Get("/getAllProducts", productHandler.ListProducts)
	app.Get("/api/products", productHandler.ListProducts)
	app.Patch("/products/name/:name", productHandler.UpdateStockByName)
	app.Patch("/products/:productId", productHandler.UpdateStockByID)
	app.Post("/incrementProductViews", productHandler.IncrementViews)
	app.Get("/export-products", productHandler.ExportProducts)

	// Uploaded images
	app.Get("/images/:imageName", productHandler.GetImage)
	app.Static("/img", cfg.UploadDir)

	// Cart / order routes
	app.Post("/save-cart", orderHandler.SaveCart)
	app.Get("/items", orderHandler.ListAll)
	app.Get("/items/:username", orderHandler.ListForUser)
	app.Put("/update-status/:username/:id", orderHandler.UpdateStatus)

	// Discount routes
	app.Post("/add-discount", discountHandler.AddDiscount)
	app.Get("/discounts", discountHandler.GetActiveDiscount)
	app.Get("/discount-codes", discountHandler.ListDiscounts)
	app.Get("/discountscodes", discountHandler.ListDiscountsFiltered)
	app.Patch("/update-discount-status/:discountCode", discountHandler.UpdateDiscountStatus)
	app.Post("/increment-discount-usage", discountHandler.IncrementUsage)

	// Admin
	app.Get("/admin/stats", adminHandler.DashboardStats)

	return nil
}
