package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"satelite/internal/cache"
	"satelite/internal/config"
	"satelite/internal/database"
	"satelite/internal/repositories"
	"satelite/internal/server"
	"satelite/internal/services"
	"satelite/pkg/kafka"
	"satelite/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	// --- Domain events ---
	var publisher services.EventPublisher
	var closers []io.Closer
	switch cfg.EventsBroker {
	case "rabbitmq":
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		closers = append(closers, mqClient)
		publisher = mqClient

		// Audit consumer: every domain event ends up in the log.
		if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	case "kafka":
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka producer: %v", err)
		}
		closers = append(closers, producer)
		publisher = producer
	default:
		log.Println("Domain events disabled (EVENTS_BROKER=none)")
	}

	// --- Listing cache ---
	var listingCache services.ListingCache
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewListingCache(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		cancel()
		if err != nil {
			log.Printf("Listing cache disabled: %v", err)
		} else {
			closers = append(closers, redisCache)
			listingCache = redisCache
		}
	}

	// --- Services ---
	authOpts := []services.AuthOption{services.WithTokenTTL(cfg.TokenTTL)}
	if publisher != nil {
		authOpts = append(authOpts, services.WithUserEvents(publisher))
	}
	if cfg.GoogleClientID != "" {
		verifier, err := services.NewGoogleVerifier(cfg.GoogleJWKSURL, cfg.GoogleClientID)
		if err != nil {
			log.Fatalf("Failed to initialize Google token verification: %v", err)
		}
		defer verifier.Close()
		authOpts = append(authOpts, services.WithIdentityVerifier(verifier))
	} else {
		log.Println("WARNING: GOOGLE_CLIENT_ID is not set, sign-in trusts client-supplied identity")
	}
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), cfg.JWTSecret, authOpts...)

	// --- Fiber app ---
	app := server.NewApp(db, authService, server.Options{
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
		Cache:       listingCache,
		Publisher:   publisher,
		AccessLog:   true,
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Printf("Error closing resource: %v", err)
		}
	}
	log.Println("Server gracefully stopped")
}
