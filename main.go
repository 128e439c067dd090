// main.go - bidarena auction server
package main

import (
	"log"
	"os"
	"time"

	"bidarena/database"
	"bidarena/handlers"
	"bidarena/middleware"
	"bidarena/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database; migrations run as part of startup
	database.InitDB()

	// Redis is optional; token revocation degrades gracefully without it
	database.InitRedis()

	// Start the broadcast hub
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	// Wire handlers
	handlers.InitHandlers(database.GetDB(), hub)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB, payloads are small JSON commands
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api/v1")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/logout", middleware.AuthMiddleware, handlers.Logout)

	// Public read routes
	api.Get("/players", handlers.GetPlayers)
	api.Get("/players/by-category", handlers.GetPlayersByCategory)
	api.Get("/teams", handlers.GetTeams)
	api.Get("/auctions", handlers.GetAuctions)

	// Authenticated read routes
	protected := api.Group("", middleware.AuthMiddleware)
	protected.Get("/players/:id", handlers.GetPlayer)
	protected.Get("/teams/:id", handlers.GetTeam)
	protected.Get("/teams/:id/players", handlers.GetTeamPlayers)
	protected.Get("/teams/:id/points", handlers.GetTeamPoints)
	protected.Get("/auctions/:id", handlers.GetAuction)
	protected.Get("/auctions/:id/bids", handlers.GetAuctionBids)
	protected.Get("/auctions/:id/current-bid", handlers.GetCurrentBid)

	// Bidding (team accounts only; team identity comes from the token)
	protected.Post("/auctions/:id/bid",
		middleware.TeamOnly, middleware.BidRateLimitMiddleware(), handlers.PlaceBid)

	// Team portal
	teamGroup := api.Group("/team", middleware.AuthMiddleware, middleware.TeamOnly)
	teamGroup.Get("/dashboard", handlers.GetTeamDashboard)
	teamGroup.Get("/roster", handlers.GetTeamRoster)
	teamGroup.Get("/budget", handlers.GetTeamBudget)
	teamGroup.Post("/retain-player", handlers.RetainPlayer)

	// Admin routes
	adminGroup := api.Group("/admin", middleware.AuthMiddleware, middleware.AdminOnly)
	adminGroup.Get("/dashboard", handlers.GetAdminDashboard)
	adminGroup.Get("/users", handlers.GetAdminUsers)
	adminGroup.Post("/players", handlers.CreatePlayer)
	adminGroup.Put("/players/:id", handlers.UpdatePlayer)
	adminGroup.Delete("/players/:id", handlers.DeletePlayer)
	adminGroup.Post("/teams", handlers.CreateTeam)
	adminGroup.Put("/teams/:id/points", handlers.UpdateTeamPoints)
	adminGroup.Post("/teams/:id/assign-player", handlers.AssignPlayerToTeam)
	adminGroup.Post("/auctions", handlers.CreateAuction)
	adminGroup.Put("/auctions/:id", handlers.UpdateAuction)
	adminGroup.Post("/auctions/:id/start", handlers.StartAuction)
	adminGroup.Post("/auctions/:id/end", handlers.EndAuction)
	adminGroup.Post("/auctions/:id/next-player", handlers.NextPlayer)
	adminGroup.Post("/auctions/:id/assign-player", handlers.AssignPlayerToAuction)
	adminGroup.Get("/auctions/:id/status", handlers.GetAuctionStatus)
	adminGroup.Get("/available-players", handlers.GetAvailablePlayers)

	// WebSocket endpoint; event payloads are notifications, clients refetch
	api.Use("/ws", middleware.AuthMiddleware, ws.UpgradeRequired)
	api.Get("/ws", ws.Handler(hub))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 Auction server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🌐 WebSocket available at ws://localhost:%s/api/v1/ws", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
