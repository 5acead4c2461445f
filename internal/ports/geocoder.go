package ports

import (
	"context"

	"astro-chart-service/internal/domain"
)

// Contract for resolving a birthplace string to geographic coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (domain.Coordinates, error)
}
