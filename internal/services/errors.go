package services

import "errors"

var (
	// ErrMissingFields is returned when a request omits a required field.
	ErrMissingFields = errors.New("missing required fields")
	// ErrMissingCredential is returned when identity verification is enabled
	// and the request carries no identity token.
	ErrMissingCredential = errors.New("identity credential is required")
	// ErrInvalidCredential is returned when the identity token fails verification.
	ErrInvalidCredential = errors.New("invalid identity credential")
)
