package provider

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("provider not configured")
)

// Generator is the boundary to an external image generation capability.
// The returned Output is opaque: a URL string, a slice of URLs, a keyed
// structure holding URLs or a Handle.
type Generator interface {
	Generate(ctx context.Context, model string, input Input) (Output, error)
}

type Input = map[string]any

type Output = any

// Handle is a lazily resolved provider result exposing its location.
type Handle interface {
	URL() (string, error)
}

type Model struct {
	ID string

	Name        string
	Description string

	MaxWidth  int
	MaxHeight int

	DefaultWidth  int
	DefaultHeight int
}

// Error carries the status reported by a provider API.
type Error struct {
	Provider string

	StatusCode int
	Message    string

	Err error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (status %d)", e.Provider, e.Message, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}
