package repositories

import (
	"context"

	"satelite/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpsertByEmail inserts user unless a row with the same email exists and
	// returns the stored row. created reports whether this call inserted it.
	UpsertByEmail(ctx context.Context, user *models.User) (stored *models.User, created bool, err error)
}
