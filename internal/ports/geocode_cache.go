package ports

import (
	"context"

	"astro-chart-service/internal/domain"
)

// Persistent place -> coordinates cache consulted before geocoding calls.
// Place keys are expected to be normalized by the caller.
type GeocodeCache interface {
	// Return cached coordinates and whether the place was present.
	Get(ctx context.Context, place string) (domain.Coordinates, bool, error)
	// Store a place -> coordinates mapping.
	Put(ctx context.Context, place string, coords domain.Coordinates) error
}
