package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"astro-chart-service/internal/domain"
	"astro-chart-service/internal/platform/obs"
	"astro-chart-service/internal/ports"
)

// AstroAPIProvider implements EphemerisProvider against a hosted astrology
// REST API.
//
// It coordinates:
//   - Birthplace normalization
//   - Persistent geocode caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type AstroAPIProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	houseSystem  string
	geocodeCache ports.GeocodeCache
}

func NewAstroAPIProvider(apiKey string, baseURL string, geocodeCache ports.GeocodeCache) (*AstroAPIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("astro API key is empty")
	}
	if baseURL == "" {
		return nil, errors.New("astro API base URL is empty")
	}

	provider := &AstroAPIProvider{
		session:      &http.Client{Timeout: 10 * time.Second},
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		houseSystem:  "placidus",
		geocodeCache: geocodeCache,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (p *AstroAPIProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves a birthplace string to coordinates, consulting the
// persistent cache before issuing an external call.
func (p *AstroAPIProvider) Geocode(ctx context.Context, place string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "astroapi.Geocode")(&err)

	norm := p.normalize(place)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: place must be non-empty")
	}

	if p.geocodeCache != nil {
		coords, ok, err := p.geocodeCache.Get(ctx, norm)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache read for %q: %w", norm, err)
		}
		if ok {
			return coords, nil
		}
	}

	coords, err := p.geocodeSearch(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if p.geocodeCache != nil {
		if err := p.geocodeCache.Put(ctx, norm, coords); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coords, nil
}

// Delegate to the batched path so single lookups share the same wire call.
func (p *AstroAPIProvider) GetPosition(
	ctx context.Context,
	birth domain.BirthDetails,
	coords domain.Coordinates,
	body string,
) (ports.BodyLongitude, error) {
	if body == "" {
		return ports.BodyLongitude{}, errors.New("get position: body must be non-empty")
	}

	results, err := p.GetPositions(ctx, birth, coords, []string{body})
	if err != nil {
		return ports.BodyLongitude{}, fmt.Errorf("get position for %q: %w", body, err)
	}

	result, ok := results[body]
	if !ok {
		return ports.BodyLongitude{}, fmt.Errorf("ephemeris returned no position for %q", body)
	}

	return result, nil
}

// GetPositions fetches raw longitudes for many bodies in one API call.
// A body absent from the result map failed its lookup (unknown to the API or
// a non-finite longitude); siblings are still returned.
func (p *AstroAPIProvider) GetPositions(
	ctx context.Context,
	birth domain.BirthDetails,
	coords domain.Coordinates,
	bodies []string,
) (_ map[string]ports.BodyLongitude, err error) {
	defer obs.Time(ctx, "astroapi.GetPositions")(&err)

	if len(bodies) == 0 {
		return map[string]ports.BodyLongitude{}, nil
	}

	planets, err := p.fetchPlanets(ctx, birth, coords)
	if err != nil {
		return nil, fmt.Errorf("fetch planets: %w", err)
	}

	out := make(map[string]ports.BodyLongitude, len(bodies))
	for _, b := range bodies {
		pl, ok := planets[b]
		if !ok {
			continue
		}
		if math.IsNaN(pl.FullDegree) || math.IsInf(pl.FullDegree, 0) {
			log.Printf("astroapi: discarding non-finite longitude body=%q value=%v", b, pl.FullDegree)
			continue
		}

		out[b] = ports.BodyLongitude{
			Longitude:  pl.FullDegree,
			Retrograde: pl.IsRetro,
		}
	}

	return out, nil
}

// GetAngles fetches the ascendant, midheaven and twelve house cusps.
func (p *AstroAPIProvider) GetAngles(
	ctx context.Context,
	birth domain.BirthDetails,
	coords domain.Coordinates,
) (_ ports.Angles, err error) {
	defer obs.Time(ctx, "astroapi.GetAngles")(&err)

	houses, err := p.fetchHouses(ctx, birth, coords)
	if err != nil {
		return ports.Angles{}, fmt.Errorf("fetch houses: %w", err)
	}

	return houses, nil
}
