package server

import (
	"errors"
	"log"
	"time"

	"satelite/internal/database"
	"satelite/internal/handlers"
	"satelite/internal/middleware"
	"satelite/internal/repositories"
	"satelite/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Options holds the optional parts of the application.
type Options struct {
	// StaticDir is the built SPA; empty disables static serving.
	StaticDir   string
	CORSOrigins string
	Cache       services.ListingCache
	Publisher   services.EventPublisher
	// AccessLog enables the request logger middleware.
	AccessLog bool
}

// NewApp wires repositories, services and handlers onto a new Fiber app.
func NewApp(db *gorm.DB, authService *services.AuthService, opts Options) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	listingRepo := repositories.NewGORMListingRepository(db)
	favoriteRepo := repositories.NewGORMFavoriteRepository(db)

	listingService := services.NewListingService(listingRepo, opts.Cache, opts.Publisher)
	userService := services.NewUserService(userRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo)

	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService)
	userHandler := handlers.NewUserHandler(userService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	if opts.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: "GET,POST,PUT,DELETE",
			AllowHeaders: "Content-Type, Authorization",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db); err != nil {
			log.Printf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		}
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := app.Group("/api")
	auth := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(api)
	listingHandler.RegisterRoutes(api, auth)
	userHandler.RegisterRoutes(api, auth)
	favoriteHandler.RegisterRoutes(api, auth)

	api.All("/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Route not found",
		})
	})

	if opts.StaticDir != "" {
		handlers.RegisterSPA(app, opts.StaticDir)
	}

	return app
}

// errorHandler renders errors that escaped the handlers as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}
