package services

import (
	"context"
	"fmt"
	"log"

	"satelite/internal/models"
	"satelite/internal/repositories"
)

// ListingService handles business logic related to land listings.
type ListingService struct {
	repo      repositories.ListingRepository
	cache     ListingCache
	publisher EventPublisher
}

// NewListingService creates a new ListingService. cache and publisher may be nil.
func NewListingService(repo repositories.ListingRepository, cache ListingCache, publisher EventPublisher) *ListingService {
	return &ListingService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

// GetAvailableListings returns every listing whose status is available.
func (s *ListingService) GetAvailableListings(ctx context.Context) ([]models.Listing, error) {
	if s.cache != nil {
		listings, ok, err := s.cache.GetAvailable(ctx)
		if err != nil {
			log.Printf("Listing cache read failed: %v", err)
		} else if ok {
			return listings, nil
		}
	}

	listings, err := s.repo.GetByStatus(ctx, models.ListingStatusAvailable)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetAvailable(ctx, listings); err != nil {
			log.Printf("Listing cache write failed: %v", err)
		}
	}
	return listings, nil
}

// GetListingByID retrieves a single listing by its ID.
func (s *ListingService) GetListingByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateListing stores a new listing and returns its generated ID.
func (s *ListingService) CreateListing(ctx context.Context, listing *models.Listing) (uint, error) {
	if err := s.repo.Create(ctx, listing); err != nil {
		return 0, fmt.Errorf("failed to create listing in repository: %w", err)
	}

	if s.cache != nil && listing.Status == models.ListingStatusAvailable {
		if err := s.cache.InvalidateAvailable(ctx); err != nil {
			log.Printf("Warning: Failed to invalidate listing cache after creating listing %d: %v", listing.ID, err)
		}
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"listingID": listing.ID,
			"ownerID":   listing.OwnerID,
			"status":    listing.Status,
			"price":     listing.Price,
		}
		if err := s.publisher.Publish(ctx, EventListingCreated, event); err != nil {
			log.Printf("Warning: Failed to publish listing created event for listing %d: %v", listing.ID, err)
		}
	}

	return listing.ID, nil
}
