package services

import (
	"context"

	"satelite/internal/models"
	"satelite/internal/repositories"
)

// FavoriteService exposes the listings a user saved.
type FavoriteService struct {
	repo repositories.FavoriteRepository
}

func NewFavoriteService(repo repositories.FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

func (s *FavoriteService) GetFavoritesForUser(ctx context.Context, userID uint) ([]models.Favorite, error) {
	return s.repo.GetByUserID(ctx, userID)
}
