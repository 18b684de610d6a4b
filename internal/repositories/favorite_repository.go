package repositories

import (
	"context"
	"fmt"

	"satelite/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines read access to saved listings.
type FavoriteRepository interface {
	GetByUserID(ctx context.Context, userID uint) ([]models.Favorite, error)
}

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{db: db}
}

func (r *GORMFavoriteRepository) GetByUserID(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favorites := make([]models.Favorite, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("failed to get favorites for user %d: %w", userID, err)
	}
	return favorites, nil
}
