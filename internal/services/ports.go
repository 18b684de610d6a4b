package services

import (
	"context"

	"satelite/internal/models"
)

// Routing keys of the domain events published by the services.
const (
	EventUserCreated    = "user.created"
	EventListingCreated = "listing.created"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// ListingCache stores the public list of available listings.
type ListingCache interface {
	GetAvailable(ctx context.Context) ([]models.Listing, bool, error)
	SetAvailable(ctx context.Context, listings []models.Listing) error
	InvalidateAvailable(ctx context.Context) error
}

// IdentityVerifier checks an identity provider token and returns its claims.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// Identity is the verified profile of a signed-in user.
type Identity struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}
