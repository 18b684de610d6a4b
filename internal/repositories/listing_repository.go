package repositories

import (
	"context"

	"satelite/internal/models"
)

// ListingRepository defines the interface for listing data access.
type ListingRepository interface {
	GetByStatus(ctx context.Context, status string) ([]models.Listing, error)
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
}
