// ABOUTME: Error taxonomy for FlyAir API calls
// ABOUTME: Separates authorization, transport status, and envelope-level domain failures

package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any 401 response on an authenticated request.
	ErrUnauthorized = errors.New("session expired, please log in again")

	// ErrInvalidCredentials is returned when a login-type request gets a 401.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// APIError is a non-2xx response other than a credential failure.
type APIError struct {
	Status  int
	Message string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// DomainError is a 2xx response whose envelope reported success=false.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return "request was rejected by the backend"
	}
	return e.Message
}

// IsUnauthorized reports whether err stems from a rejected credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
