package repositories

import (
	"context"
	"errors"
	"fmt"

	"satelite/internal/models"

	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// GetByStatus retrieves all listings with the given status, oldest first.
func (r *GORMListingRepository) GetByStatus(ctx context.Context, status string) ([]models.Listing, error) {
	listings := make([]models.Listing, 0)
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings with status %s: %w", status, err)
	}
	return listings, nil
}

// GetByID retrieves a single listing by its ID from the database.
func (r *GORMListingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get listing by ID %d: %w", id, err)
	}
	return &listing, nil
}

// Create inserts a listing; the generated ID is written back into listing.
func (r *GORMListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}
