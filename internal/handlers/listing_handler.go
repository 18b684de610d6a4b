package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"satelite/internal/middleware"
	"satelite/internal/models"
	"satelite/internal/repositories"
	"satelite/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateListingRequest is the body of a listing creation. Every field is
// required; zero values count as missing.
type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required"`
	Lat         float64  `json:"lat" validate:"required"`
	Lon         float64  `json:"lon" validate:"required"`
	Area        float64  `json:"area" validate:"required"`
	Images      []string `json:"images" validate:"required"`
	Status      string   `json:"status" validate:"required"`
	OwnerID     uint     `json:"owner_id" validate:"required"`
}

func (r CreateListingRequest) toModel() *models.Listing {
	return &models.Listing{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Lat:         r.Lat,
		Lon:         r.Lon,
		Area:        r.Area,
		Images:      r.Images,
		Status:      r.Status,
		OwnerID:     r.OwnerID,
	}
}

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	service  *services.ListingService
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the listing routes. Creation requires auth.
func (h *ListingHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/listings", h.HandleGetListings)
	router.Get("/listings/:id", h.HandleGetListingByID)
	router.Post("/listings", auth, h.HandleCreateListing)
}

// HandleGetListings returns every available listing.
func (h *ListingHandler) HandleGetListings(c *fiber.Ctx) error {
	listings, err := h.service.GetAvailableListings(c.UserContext())
	if err != nil {
		return internalError(c, "getting available listings", err)
	}
	return c.JSON(listings)
}

// HandleGetListingByID returns a single listing.
func (h *ListingHandler) HandleGetListingByID(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid listing ID")
	}

	listing, err := h.service.GetListingByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Listing not found",
			})
		}
		return internalError(c, fmt.Sprintf("getting listing %d", id), err)
	}
	return c.JSON(listing)
}

// HandleCreateListing stores a listing owned by the authenticated user.
func (h *ListingHandler) HandleCreateListing(c *fiber.Ctx) error {
	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing listing request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		log.Printf("Listing request missing fields: %v", err)
		return badRequest(c, "All fields are required")
	}

	if userID, ok := middleware.UserID(c); !ok || userID != req.OwnerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "owner_id must match the authenticated user",
		})
	}

	id, err := h.service.CreateListing(c.UserContext(), req.toModel())
	if err != nil {
		return internalError(c, "creating listing", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Listing created successfully",
		"id":      id,
	})
}

// parseID accepts positive decimal ids only.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return uint(id), nil
}
