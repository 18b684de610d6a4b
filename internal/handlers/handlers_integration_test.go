package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"satelite/internal/database"
	"satelite/internal/handlers"
	"satelite/internal/middleware"
	"satelite/internal/models"
	"satelite/internal/repositories"
	"satelite/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService, *gorm.DB) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Each test gets its own named in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	userRepo := repositories.NewGORMUserRepository(db)
	listingRepo := repositories.NewGORMListingRepository(db)
	favoriteRepo := repositories.NewGORMFavoriteRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	listingService := services.NewListingService(listingRepo, nil, nil)
	userService := services.NewUserService(userRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo)

	app := fiber.New()
	api := app.Group("/api")
	auth := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewListingHandler(listingService).RegisterRoutes(api, auth)
	handlers.NewUserHandler(userService).RegisterRoutes(api, auth)
	handlers.NewFavoriteHandler(favoriteService).RegisterRoutes(api, auth)

	return app, authService, db
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type signInResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func signIn(t *testing.T, app *fiber.App, email string) signInResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth", map[string]string{
		"external_id": "g-" + email,
		"name":        "Ana",
		"email":       email,
		"avatar_url":  "u",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out signInResponse
	decode(t, resp, &out)
	return out
}

func validListing(ownerID uint) map[string]interface{} {
	return map[string]interface{}{
		"title":       "Lote en Punta Hermosa",
		"description": "Terreno plano a 200 m de la playa",
		"price":       85000.5,
		"lat":         -12.336,
		"lon":         -76.823,
		"area":        300,
		"images":      []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
		"status":      models.ListingStatusAvailable,
		"owner_id":    ownerID,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestAuthSignIn_CreatesThenReusesUser(t *testing.T) {
	app, authService, db := setupApp(t)

	first := signIn(t, app, "a@x.com")
	assert.Equal(t, "a@x.com", first.User.Email)
	assert.Equal(t, "g-a@x.com", first.User.ExternalID)
	assert.Equal(t, models.RoleBuyer, first.User.Role)
	assert.NotEmpty(t, first.Token)

	claims, err := authService.ValidateToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, float64(first.User.ID), claims["user_id"])
	assert.Equal(t, "a@x.com", claims["email"])

	second := signIn(t, app, "a@x.com")
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, int64(1), countRows(t, db, &models.User{}))
}

func TestAuthSignIn_GoogleAlias(t *testing.T) {
	app, _, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/google", map[string]string{
		"external_id": "g1", "email": "alias@x.com",
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthSignIn_MissingFields(t *testing.T) {
	app, _, db := setupApp(t)

	for name, body := range map[string]map[string]string{
		"no external_id": {"name": "Ana", "email": "a@x.com"},
		"no email":       {"external_id": "g1", "name": "Ana"},
		"empty":          {},
	} {
		t.Run(name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth", body, "")
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Equal(t, int64(0), countRows(t, db, &models.User{}))
}

func TestAuthSignIn_InvalidBody(t *testing.T) {
	app, _, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListingLifecycle(t *testing.T) {
	app, _, _ := setupApp(t)
	session := signIn(t, app, "seller@x.com")

	// --- Create ---
	body := validListing(session.User.ID)
	resp := doJSON(t, app, http.MethodPost, "/api/listings", body, session.Token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Message string `json:"message"`
		ID      uint   `json:"id"`
	}
	decode(t, resp, &created)
	assert.NotZero(t, created.ID)

	// --- Get by id ---
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/listings/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Listing
	decode(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, body["title"], fetched.Title)
	assert.Equal(t, body["description"], fetched.Description)
	assert.Equal(t, body["price"], fetched.Price)
	assert.Equal(t, body["lat"], fetched.Lat)
	assert.Equal(t, body["lon"], fetched.Lon)
	assert.Equal(t, float64(300), fetched.Area)
	assert.Equal(t, body["images"], []string(fetched.Images))
	assert.Equal(t, models.ListingStatusAvailable, fetched.Status)
	assert.Equal(t, session.User.ID, fetched.OwnerID)

	// --- Sold listings stay out of the catalogue ---
	sold := validListing(session.User.ID)
	sold["status"] = "sold"
	resp = doJSON(t, app, http.MethodPost, "/api/listings", sold, session.Token)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/listings", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listings []models.Listing
	decode(t, resp, &listings)
	require.Len(t, listings, 1)
	assert.Equal(t, created.ID, listings[0].ID)
}

func TestGetListings_Empty(t *testing.T) {
	app, _, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/listings", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestCreateListing_MissingField(t *testing.T) {
	app, _, db := setupApp(t)
	session := signIn(t, app, "seller@x.com")

	for field := range validListing(session.User.ID) {
		t.Run(field, func(t *testing.T) {
			body := validListing(session.User.ID)
			delete(body, field)

			resp := doJSON(t, app, http.MethodPost, "/api/listings", body, session.Token)
			var out map[string]string
			decode(t, resp, &out)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "All fields are required", out["message"])
		})
	}
	assert.Equal(t, int64(0), countRows(t, db, &models.Listing{}))
}

func TestCreateListing_AuthAndOwnership(t *testing.T) {
	app, _, db := setupApp(t)
	session := signIn(t, app, "seller@x.com")

	resp := doJSON(t, app, http.MethodPost, "/api/listings", validListing(session.User.ID), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/listings", validListing(session.User.ID+100), session.Token)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.Equal(t, int64(0), countRows(t, db, &models.Listing{}))
}

func TestGetListingByID_NotFoundAndInvalid(t *testing.T) {
	app, _, _ := setupApp(t)

	for _, id := range []string{"1", "42", "999999"} {
		resp := doJSON(t, app, http.MethodGet, "/api/listings/"+id, nil, "")
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "id %s", id)
	}

	for _, id := range []string{"abc", "0", "-1"} {
		resp := doJSON(t, app, http.MethodGet, "/api/listings/"+id, nil, "")
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "id %s", id)
	}
}

func TestUserEndpoints(t *testing.T) {
	app, _, _ := setupApp(t)
	session := signIn(t, app, "a@x.com")
	signIn(t, app, "b@x.com")

	// --- Without token ---
	resp := doJSON(t, app, http.MethodGet, "/api/users", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// --- List ---
	resp = doJSON(t, app, http.MethodGet, "/api/users", nil, session.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	decode(t, resp, &users)
	assert.Len(t, users, 2)

	// --- Get by id ---
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", session.User.ID), nil, session.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.User
	decode(t, resp, &user)
	assert.Equal(t, "a@x.com", user.Email)

	resp = doJSON(t, app, http.MethodGet, "/api/users/9999", nil, session.Token)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFavorites_OnlyCallers(t *testing.T) {
	app, _, db := setupApp(t)
	ana := signIn(t, app, "a@x.com")
	ben := signIn(t, app, "b@x.com")

	require.NoError(t, db.Create(&[]models.Favorite{
		{UserID: ana.User.ID, ListingID: 1},
		{UserID: ana.User.ID, ListingID: 2},
		{UserID: ben.User.ID, ListingID: 1},
	}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/favorites", nil, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/favorites", nil, ana.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var favorites []models.Favorite
	decode(t, resp, &favorites)
	require.Len(t, favorites, 2)
	for _, f := range favorites {
		assert.Equal(t, ana.User.ID, f.UserID)
	}
}
