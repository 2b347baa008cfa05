package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"placement-portal/config"
	"placement-portal/handlers"
	"placement-portal/middleware"
	"placement-portal/models"
	"placement-portal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := services.InitMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer db.Disconnect(ctx)

	// Initialize services and collection indexes
	services.InitServices(db, cfg.DatabaseName)

	// Wire handlers to the student store
	handlers.Init(cfg, services.NewMongoStudentStore())

	// Login throttle; Redis-backed when REDIS_ADDR is set
	loginLimiter := services.NewRateLimiterFromConfig(cfg.RedisAddr, cfg.LoginRateLimit, time.Minute)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code, "path", c.Path())
			return c.Status(code).JSON(models.NewErrorResponse(
				"Internal server error", models.CodeInternalError, middleware.GetRequestID(c)))
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID)

	// CORS configuration - allow the dashboard development servers
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		MaxAge:           86400, // 24 hours
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Authentication endpoints
	auth := app.Group("/api/auth")
	auth.Post("/login", middleware.RateLimit(loginLimiter, "login"), handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/verify-account", handlers.VerifyAccount)
	auth.Post("/verify-account", handlers.VerifyAccount)
	auth.Get("/me", middleware.RequireAuth(cfg), handlers.Me)

	// Student import endpoints
	students := app.Group("/api/students")
	students.Post("/bulk-import",
		middleware.RequireRole(cfg, models.RoleAdmin, models.RoleTPO, models.RoleFaculty),
		handlers.BulkImportStudents)
	students.Get("/bulk-import", middleware.RequireAuth(cfg), handlers.GetImportTemplate)

	// User administration endpoints
	users := app.Group("/api/users", middleware.RequireAuth(cfg))
	users.Post("/", middleware.RequirePermission(cfg, "users:write"), handlers.CreateUser)
	users.Get("/", middleware.RequirePermission(cfg, "users:read"), handlers.GetAccountUsers)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "placement-portal",
		})
	})

	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
