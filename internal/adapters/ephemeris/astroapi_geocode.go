package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"astro-chart-service/internal/domain"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeSearch resolves a single place string via the API's geocode
// endpoint (/geocode/search). Calls may be retried via doWithRetry.
func (p *AstroAPIProvider) geocodeSearch(
	ctx context.Context,
	place string,
) (domain.Coordinates, error) {
	endpoint := p.baseURL + "/geocode/search"

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", place)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", place)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", place)
	}

	return domain.Coordinates{
		Lon: coords[0],
		Lat: coords[1],
	}, nil
}
