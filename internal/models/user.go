package models

import "time"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User represents a marketplace account created on first Google sign-in.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ExternalID string    `json:"external_id" gorm:"type:varchar(255);index"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	AvatarURL  string    `json:"avatar_url" gorm:"type:varchar(1024)"`
	Role       string    `json:"role" gorm:"type:varchar(32);default:buyer"`
	CanSell    bool      `json:"can_sell" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}
