package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc"
	jwtv4 "github.com/golang-jwt/jwt/v4"
)

// GoogleCertsURL publishes the keys Google signs ID tokens with.
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwtv4.RegisteredClaims
}

// GoogleVerifier validates Google Sign-In ID tokens against Google's JWKS.
type GoogleVerifier struct {
	clientID string
	jwks     *keyfunc.JWKS
	parser   *jwtv4.Parser
}

// NewGoogleVerifier downloads the key set at jwksURL and keeps it refreshed
// in the background until Close is called.
func NewGoogleVerifier(jwksURL, clientID string) (*GoogleVerifier, error) {
	if jwksURL == "" {
		jwksURL = GoogleCertsURL
	}
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Printf("Failed to refresh Google JWKS: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load Google JWKS from %s: %w", jwksURL, err)
	}
	return NewGoogleVerifierWithKeys(jwks, clientID), nil
}

// NewGoogleVerifierWithKeys builds a verifier over an already loaded key set.
func NewGoogleVerifierWithKeys(jwks *keyfunc.JWKS, clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID: clientID,
		jwks:     jwks,
		parser:   jwtv4.NewParser(jwtv4.WithValidMethods([]string{"RS256"})),
	}
}

// Verify checks signature, audience, issuer, expiry and email verification.
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var claims googleClaims
	token, err := v.parser.ParseWithClaims(credential, &claims, v.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("id token is not valid")
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("id token has no expiry")
	}
	if !claims.VerifyAudience(v.clientID, true) {
		return nil, fmt.Errorf("id token audience %v does not match client", claims.Audience)
	}
	if !googleIssuers[claims.Issuer] {
		return nil, fmt.Errorf("unexpected id token issuer %q", claims.Issuer)
	}
	if !claims.EmailVerified {
		return nil, fmt.Errorf("email %s is not verified", claims.Email)
	}

	return &Identity{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		Name:       claims.Name,
		AvatarURL:  claims.Picture,
	}, nil
}

// Close stops the background key refresh.
func (v *GoogleVerifier) Close() {
	v.jwks.EndBackground()
}
