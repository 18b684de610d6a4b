package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"satelite/internal/models"

	"github.com/redis/go-redis/v9"
)

const availableListingsKey = "listings:available"

// Config holds Redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ListingCache keeps the available-listings response in Redis.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache connects to Redis and verifies the connection.
func NewListingCache(ctx context.Context, cfg Config) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	log.Printf("Redis listing cache connected (%s)", cfg.Addr)
	return NewListingCacheWithClient(client, cfg.TTL), nil
}

// NewListingCacheWithClient wraps an existing client.
func NewListingCacheWithClient(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

// GetAvailable returns the cached list; ok is false on a cache miss.
func (c *ListingCache) GetAvailable(ctx context.Context) ([]models.Listing, bool, error) {
	raw, err := c.client.Get(ctx, availableListingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", availableListingsKey, err)
	}

	var listings []models.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", availableListingsKey, err)
	}
	return listings, true, nil
}

// SetAvailable stores the list for the configured TTL.
func (c *ListingCache) SetAvailable(ctx context.Context, listings []models.Listing) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to encode listings: %w", err)
	}
	if err := c.client.Set(ctx, availableListingsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", availableListingsKey, err)
	}
	return nil
}

// InvalidateAvailable drops the cached list.
func (c *ListingCache) InvalidateAvailable(ctx context.Context) error {
	return c.client.Del(ctx, availableListingsKey).Err()
}

// Close closes the Redis client.
func (c *ListingCache) Close() error {
	return c.client.Close()
}
