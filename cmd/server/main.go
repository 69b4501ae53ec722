package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/jaanutuni/internal/config"
	"github.com/example/jaanutuni/internal/database"
	"github.com/example/jaanutuni/internal/routes"
	"github.com/example/jaanutuni/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			mqClient = client
			defer mqClient.Close()
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "Jaanutuni Backend",
		ErrorHandler: routes.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	if err := routes.Register(app, db, cfg, mqClient); err != nil {
		log.Fatalf("failed to register routes: %v", err)
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
