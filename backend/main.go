package main

import (
	"log"
	"os"

	"qizz/backend/config"
	"qizz/backend/middleware"
	"qizz/backend/routes"
	"qizz/backend/services"
	"qizz/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Output:       os.Stdout,
		EnableColors: true,
	})

	// AI provider is optional; without a key everything runs on fallbacks
	var provider services.AIProvider
	if p, err := services.NewOpenAIProvider(cfg); err == nil {
		provider = p
	} else {
		logger.Printf("AI provider disabled: %v", err)
	}
	ai := services.NewAIService(provider, logger.Printf)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes) + 1024*1024,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, ai)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
