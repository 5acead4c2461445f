package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"astro-chart-service/internal/astro"
	"astro-chart-service/internal/domain"
	"astro-chart-service/internal/ports"
)

type BuildChartRequest struct {
	Birth domain.BirthDetails
}

// BuildChart computes a full birth chart.
//
// It geocodes the birthplace, fetches raw ecliptic longitudes for every body
// plus the chart angles, maps each longitude through the zodiac decomposer,
// and derives the South Node as the exact opposite point of the North Node.
// Per-body lookup failures ride along in the chart; only geocoding or the
// chart angles failing aborts the computation. The computed chart is
// persisted when a repository is supplied; persistence failures are logged,
// not fatal.
func BuildChart(
	ctx context.Context,
	req BuildChartRequest,
	geocoder ports.Geocoder,
	provider ports.EphemerisProvider,
	repo ports.ChartRepository,
) (*domain.Chart, error) {
	birth := req.Birth
	birth.Place = strings.Join(strings.Fields(birth.Place), " ")
	if birth.Place == "" {
		return nil, fmt.Errorf("build chart: birthplace must be non-empty")
	}

	coords, err := geocoder.Geocode(ctx, birth.Place)
	if err != nil {
		return nil, fmt.Errorf("build chart: geocode %q: %w", birth.Place, err)
	}

	angles, err := provider.GetAngles(ctx, birth, coords)
	if err != nil {
		return nil, fmt.Errorf("build chart: get angles: %w", err)
	}

	positions, failures, err := fetchPositions(ctx, birth, coords, provider, domain.Bodies)
	if err != nil {
		return nil, fmt.Errorf("build chart: %w", err)
	}

	bodies := make(map[string]domain.BodyResult, len(domain.Bodies)+1)
	for _, b := range domain.Bodies {
		if msg, failed := failures[b]; failed {
			bodies[b] = domain.BodyResult{Err: msg}
			continue
		}

		raw := positions[b]
		breakdown, err := astro.Decompose(raw.Longitude)
		if err != nil {
			// Bad longitude from the ephemeris is a per-body failure,
			// the same as a failed lookup.
			bodies[b] = domain.BodyResult{Err: err.Error()}
			continue
		}

		bodies[b] = domain.BodyResult{Position: &domain.BodyPosition{
			Body:       b,
			Longitude:  raw.Longitude,
			Position:   breakdown,
			Retrograde: raw.Retrograde,
		}}
	}

	bodies[domain.BodySouthNode] = deriveSouthNode(bodies[domain.BodyNorthNode])

	ascendant, err := astro.Decompose(angles.Ascendant)
	if err != nil {
		return nil, fmt.Errorf("build chart: decompose ascendant: %w", err)
	}

	midheaven, err := astro.Decompose(angles.Midheaven)
	if err != nil {
		return nil, fmt.Errorf("build chart: decompose midheaven: %w", err)
	}

	houses := make([]domain.HouseCusp, 0, len(angles.Cusps))
	for i, cusp := range angles.Cusps {
		breakdown, err := astro.Decompose(cusp)
		if err != nil {
			return nil, fmt.Errorf("build chart: decompose cusp for house %d: %w", i+1, err)
		}
		houses = append(houses, domain.HouseCusp{House: i + 1, Cusp: breakdown})
	}

	chart := &domain.Chart{
		Birth:       birth,
		Coordinates: coords,
		ComputedAt:  time.Now().UTC(),
		Bodies:      bodies,
		Ascendant:   ascendant,
		Midheaven:   midheaven,
		Houses:      houses,
	}

	if repo != nil {
		if err := repo.SaveChart(ctx, chart); err != nil {
			log.Printf("chart persistence failed: %v", err)
		}
	}

	return chart, nil
}

// deriveSouthNode mirrors the North Node through the chart center. The
// ephemeris never reports the South Node directly; it is 180° from the
// North Node by definition.
func deriveSouthNode(northNode domain.BodyResult) domain.BodyResult {
	if !northNode.OK() {
		return domain.BodyResult{Err: "North Node unavailable: " + northNode.Err}
	}

	opposite, err := astro.OppositePoint(northNode.Position.Longitude)
	if err != nil {
		return domain.BodyResult{Err: err.Error()}
	}

	breakdown, err := astro.Decompose(opposite)
	if err != nil {
		return domain.BodyResult{Err: err.Error()}
	}

	return domain.BodyResult{Position: &domain.BodyPosition{
		Body:       domain.BodySouthNode,
		Longitude:  opposite,
		Position:   breakdown,
		Retrograde: northNode.Position.Retrograde,
	}}
}
