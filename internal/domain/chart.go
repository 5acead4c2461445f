package domain

import (
	"time"

	"astro-chart-service/internal/astro"
)

// Position of a single celestial body on the ecliptic.
type BodyPosition struct {
	Body       string
	Longitude  float64
	Position   astro.SignBreakdown
	Retrograde bool
}

// BodyResult is a per-body success/failure variant. One body failing its
// ephemeris lookup never aborts sibling bodies; the failure rides along in
// the chart instead.
type BodyResult struct {
	Position *BodyPosition
	Err      string
}

func (r BodyResult) OK() bool { return r.Err == "" }

// Cusp of a single house, numbered 1 through 12.
type HouseCusp struct {
	House int
	Cusp  astro.SignBreakdown
}

// Represents a fully assembled birth chart: the echoed birth details, the
// geocoded birthplace, per-body results keyed by body name, the chart
// angles, and the twelve house cusps. A Chart is immutable output data and
// contains no side effects.
type Chart struct {
	ChartID     int
	Birth       BirthDetails
	Coordinates Coordinates
	ComputedAt  time.Time
	Bodies      map[string]BodyResult
	Ascendant   astro.SignBreakdown
	Midheaven   astro.SignBreakdown
	Houses      []HouseCusp
}
