package handlers

import (
	"errors"
	"log"

	"satelite/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/auth", h.HandleSignIn)
	router.Post("/auth/google", h.HandleSignIn)
}

// HandleSignIn finds or creates the user behind a Google sign-in and returns
// a session token.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req services.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sign-in request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.SignIn(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			return badRequest(c, "external_id and email are required")
		case errors.Is(err, services.ErrMissingCredential):
			return badRequest(c, "credential is required")
		case errors.Is(err, services.ErrInvalidCredential):
			log.Printf("Rejected sign-in: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication failed",
			})
		}
		return internalError(c, "signing in", err)
	}

	return c.JSON(result)
}
