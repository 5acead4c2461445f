package ports

import (
	"context"

	"astro-chart-service/internal/domain"
)

// Raw ecliptic longitude of one body as reported by the ephemeris.
// The longitude is unnormalized and may carry any real value.
type BodyLongitude struct {
	Longitude  float64
	Retrograde bool
}

// Chart angles and house cusps as raw ecliptic longitudes.
type Angles struct {
	Ascendant float64
	Midheaven float64
	Cusps     [12]float64
}

// Contract for retrieving raw ecliptic positions from an ephemeris source.
type EphemerisProvider interface {
	// Return the raw longitude of a single body at the birth instant.
	GetPosition(ctx context.Context, birth domain.BirthDetails, coords domain.Coordinates, body string) (BodyLongitude, error)

	// Return ascendant, midheaven and the twelve house cusps.
	GetAngles(ctx context.Context, birth domain.BirthDetails, coords domain.Coordinates) (Angles, error)
}

// Optional extension of EphemerisProvider that supports batched lookups.
type EphemerisBatchProvider interface {
	EphemerisProvider
	// Return longitudes for many bodies at once. A body missing from the
	// result map means its lookup failed; siblings are still returned.
	GetPositions(ctx context.Context, birth domain.BirthDetails, coords domain.Coordinates, bodies []string) (map[string]BodyLongitude, error)
}
