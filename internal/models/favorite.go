package models

import "time"

// Favorite associates a user with a listing they saved.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_favorites_user_listing"`
	ListingID uint      `json:"listing_id" gorm:"uniqueIndex:idx_favorites_user_listing"`
	CreatedAt time.Time `json:"created_at"`
}
