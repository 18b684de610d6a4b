package models

import (
	"time"

	"gorm.io/datatypes"
)

// ListingStatusAvailable marks a listing that shows up in the public catalogue.
const ListingStatusAvailable = "available"

// Listing represents a land parcel advertised for sale.
type Listing struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	Title       string                      `json:"title" gorm:"type:varchar(255);not null"`
	Description string                      `json:"description" gorm:"type:text"`
	Price       float64                     `json:"price"`
	Lat         float64                     `json:"lat"`
	Lon         float64                     `json:"lon"`
	Area        float64                     `json:"area"` // square meters
	Images      datatypes.JSONSlice[string] `json:"images"`
	Status      string                      `json:"status" gorm:"type:varchar(32);index"`
	OwnerID     uint                        `json:"owner_id" gorm:"index"`
	CreatedAt   time.Time                   `json:"created_at"`
}
