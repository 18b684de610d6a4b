package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"satelite/internal/models"
	"satelite/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// SignInRequest is the body of a sign-in call. Credential carries the Google
// ID token; the profile fields are only trusted when verification is off.
type SignInRequest struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatar_url"`
	Credential string `json:"credential"`
}

// SignInResult is returned to the client after a successful sign-in.
type SignInResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService handles sign-in and session tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	verifier  IdentityVerifier
	publisher EventPublisher
	jwtSecret []byte
	tokenTTL  time.Duration
}

// AuthOption configures optional collaborators of AuthService.
type AuthOption func(*AuthService)

// WithIdentityVerifier enables server-side verification of identity tokens.
func WithIdentityVerifier(v IdentityVerifier) AuthOption {
	return func(s *AuthService) { s.verifier = v }
}

// WithUserEvents publishes a user.created event for every new account.
func WithUserEvents(p EventPublisher) AuthOption {
	return func(s *AuthService) { s.publisher = p }
}

// WithTokenTTL overrides DefaultTokenTTL.
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifiesIdentity reports whether identity tokens are checked server side.
func (s *AuthService) VerifiesIdentity() bool {
	return s.verifier != nil
}

// SignIn resolves the caller's identity, finds or creates the matching user
// by email and issues a session token for it.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error) {
	if s.verifier != nil {
		if req.Credential == "" {
			return nil, ErrMissingCredential
		}
		identity, err := s.verifier.Verify(ctx, req.Credential)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
		req.ExternalID = identity.ExternalID
		req.Email = identity.Email
		req.Name = identity.Name
		req.AvatarURL = identity.AvatarURL
	}

	req.ExternalID = strings.TrimSpace(req.ExternalID)
	req.Email = strings.TrimSpace(req.Email)
	if req.ExternalID == "" || req.Email == "" {
		return nil, ErrMissingFields
	}

	user, created, err := s.userRepo.UpsertByEmail(ctx, &models.User{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Email:      req.Email,
		AvatarURL:  req.AvatarURL,
		Role:       models.RoleBuyer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign in %s: %w", req.Email, err)
	}

	if created {
		log.Printf("Created user %d for %s", user.ID, user.Email)
		s.publishUserCreated(ctx, user)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &SignInResult{Token: token, User: user}, nil
}

// GenerateToken signs a session token carrying the user's id and email.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// UserIDFromClaims extracts the numeric user id of a validated session token.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	// JSON numbers decode as float64.
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 || raw != float64(uint(raw)) {
		return 0, fmt.Errorf("invalid token: malformed user_id claim")
	}
	return uint(raw), nil
}

func (s *AuthService) publishUserCreated(ctx context.Context, user *models.User) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"userID":    user.ID,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, EventUserCreated, event); err != nil {
		log.Printf("Warning: Failed to publish user created event for user %d: %v", user.ID, err)
	}
}
