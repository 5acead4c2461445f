package ephemeris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"astro-chart-service/internal/domain"
	"astro-chart-service/internal/ports"
)

// chartRequest is the wire payload shared by the planets and houses
// endpoints. The API expects the local birth time plus a UTC offset in
// hours, so the stored UTC instant is shifted back before encoding.
type chartRequest struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Date        int     `json:"date"`
	Hours       int     `json:"hours"`
	Minutes     int     `json:"minutes"`
	Seconds     int     `json:"seconds"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    float64 `json:"timezone"`
	HouseSystem string  `json:"house_system,omitempty"`
}

type planetEntry struct {
	Name       string  `json:"name"`
	FullDegree float64 `json:"full_degree"`
	IsRetro    bool    `json:"is_retro"`
}

type planetsResponse struct {
	Planets []planetEntry `json:"planets"`
}

type housesResponse struct {
	Ascendant *float64 `json:"ascendant"`
	Midheaven *float64 `json:"midheaven"`
	Houses    []struct {
		House  int      `json:"house"`
		Degree *float64 `json:"degree"`
	} `json:"houses"`
}

func (p *AstroAPIProvider) chartPayload(
	birth domain.BirthDetails,
	coords domain.Coordinates,
	houseSystem string,
) chartRequest {
	offset := time.Duration(birth.TZOffset * float64(time.Hour))
	local := birth.BornAt.UTC().Add(offset)

	return chartRequest{
		Year:        local.Year(),
		Month:       int(local.Month()),
		Date:        local.Day(),
		Hours:       local.Hour(),
		Minutes:     local.Minute(),
		Seconds:     local.Second(),
		Latitude:    coords.Lat,
		Longitude:   coords.Lon,
		Timezone:    birth.TZOffset,
		HouseSystem: houseSystem,
	}
}

// fetchPlanets retrieves raw planetary longitudes for the birth instant via
// the planets endpoint. Body names are returned as sent by the API.
func (p *AstroAPIProvider) fetchPlanets(
	ctx context.Context,
	birth domain.BirthDetails,
	coords domain.Coordinates,
) (map[string]planetEntry, error) {
	endpoint := p.baseURL + "/western/planets"

	payload, err := json.Marshal(p.chartPayload(birth, coords, ""))
	if err != nil {
		return nil, fmt.Errorf("marshal planets request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("planets request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded planetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode planets response: %w", err)
	}

	out := make(map[string]planetEntry, len(decoded.Planets))
	for _, pl := range decoded.Planets {
		if pl.Name == "" {
			continue
		}
		out[pl.Name] = pl
	}

	return out, nil
}

// fetchHouses retrieves the ascendant, midheaven and twelve cusps via the
// houses endpoint. A short or non-finite response is an error: the angles
// are required for chart assembly, unlike individual bodies.
func (p *AstroAPIProvider) fetchHouses(
	ctx context.Context,
	birth domain.BirthDetails,
	coords domain.Coordinates,
) (ports.Angles, error) {
	endpoint := p.baseURL + "/western/houses"

	payload, err := json.Marshal(p.chartPayload(birth, coords, p.houseSystem))
	if err != nil {
		return ports.Angles{}, fmt.Errorf("marshal houses request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.Angles{}, fmt.Errorf("houses request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded housesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Angles{}, fmt.Errorf("decode houses response: %w", err)
	}

	if decoded.Ascendant == nil || decoded.Midheaven == nil {
		return ports.Angles{}, fmt.Errorf("houses response missing ascendant or midheaven")
	}
	if len(decoded.Houses) != 12 {
		return ports.Angles{}, fmt.Errorf("expected 12 house cusps, got %d", len(decoded.Houses))
	}

	angles := ports.Angles{
		Ascendant: *decoded.Ascendant,
		Midheaven: *decoded.Midheaven,
	}

	seen := make(map[int]bool, 12)
	for _, h := range decoded.Houses {
		if h.House < 1 || h.House > 12 || seen[h.House] {
			return ports.Angles{}, fmt.Errorf("houses response has invalid house number %d", h.House)
		}
		if h.Degree == nil || math.IsNaN(*h.Degree) || math.IsInf(*h.Degree, 0) {
			return ports.Angles{}, fmt.Errorf("houses response has invalid cusp for house %d", h.House)
		}

		seen[h.House] = true
		angles.Cusps[h.House-1] = *h.Degree
	}

	return angles, nil
}
