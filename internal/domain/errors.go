package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned before any provider is contacted
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured means the provider API key is missing
	ErrNotConfigured = errors.New("API key not configured")

	// ErrProvider covers malformed or incomplete provider responses
	ErrProvider = errors.New("provider error")

	// ErrTimeout means the job never produced images within the attempt budget
	ErrTimeout = errors.New("generation timed out")

	// ErrGenerationFailed means the provider reported the job as failed
	ErrGenerationFailed = errors.New("generation failed")

	// ErrNoImage means the provider succeeded without returning an artifact
	ErrNoImage = errors.New("no image generated")
)

// ProviderError is a non-success HTTP response from an upstream provider
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error: %d", e.Provider, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return ErrProvider
}
