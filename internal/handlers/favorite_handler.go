package handlers

import (
	"satelite/internal/middleware"
	"satelite/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FavoriteHandler serves the authenticated user's saved listings.
type FavoriteHandler struct {
	service *services.FavoriteService
}

func NewFavoriteHandler(service *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

func (h *FavoriteHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/favorites", auth, h.HandleGetFavorites)
}

func (h *FavoriteHandler) HandleGetFavorites(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authorization header is required",
		})
	}

	favorites, err := h.service.GetFavoritesForUser(c.UserContext(), userID)
	if err != nil {
		return internalError(c, "getting favorites", err)
	}
	return c.JSON(favorites)
}
