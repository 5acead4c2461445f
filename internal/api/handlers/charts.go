package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"astro-chart-service/internal/api/dto"
	"astro-chart-service/internal/astro"
	"astro-chart-service/internal/domain"
	"astro-chart-service/internal/platform/obs"
	"astro-chart-service/internal/ports"
	"astro-chart-service/internal/services"
)

type ChartHandler struct {
	Geocoder ports.Geocoder
	Provider ports.EphemerisProvider
	Repo     ports.ChartRepository
	Cache    ports.ChartCache
}

// Handle dispatches /charts by method: POST computes a chart, GET lists
// recently computed ones.
func (h *ChartHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.Create(w, r)
	case http.MethodGet:
		h.List(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Create orchestrates geocoding, ephemeris lookups and zodiac decomposition
// for one birth chart. Responses are cached by a hash of the birth details.
func (h *ChartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ChartRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	birth, errMsg := parseBirthDetails(req)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	key := chartCacheKey(birth)
	if h.Cache != nil {
		if cached, ok := h.Cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := io.WriteString(w, cached); err != nil {
				log.Printf("write cached chart failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
			}
			return
		}
	}

	svcReq := services.BuildChartRequest{Birth: birth}

	chart, err := services.BuildChart(r.Context(), svcReq, h.Geocoder, h.Provider, h.Repo)
	if err != nil {
		log.Printf("build chart failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := toChartResponse(chart)

	if h.Cache != nil {
		if payload, err := json.Marshal(res); err == nil {
			if err := h.Cache.Set(r.Context(), key, string(payload)); err != nil {
				log.Printf("chart cache write failed: %v", err)
			}
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

// List returns recently computed charts, newest first.
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	charts, err := h.Repo.ListCharts(r.Context())
	if err != nil {
		log.Printf("list charts failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListChartsResponse{Charts: make([]dto.ChartResponse, 0, len(charts))}
	for _, c := range charts {
		res.Charts = append(res.Charts, toChartResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func parseBirthDetails(req dto.ChartRequest) (domain.BirthDetails, string) {
	place := strings.TrimSpace(req.Place)
	if place == "" {
		return domain.BirthDetails{}, "place is required"
	}

	if req.TZOffset < -12 || req.TZOffset > 14 {
		return domain.BirthDetails{}, "tzoffset must be between -12 and 14"
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return domain.BirthDetails{}, "date must be formatted YYYY-MM-DD"
	}

	clock, err := time.Parse("15:04", req.Time)
	if err != nil {
		return domain.BirthDetails{}, "time must be formatted HH:MM"
	}

	// Local birth time shifted to the UTC instant by the supplied offset.
	local := time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC,
	)
	bornAt := local.Add(-time.Duration(req.TZOffset * float64(time.Hour)))

	return domain.BirthDetails{
		Name:     strings.TrimSpace(req.Name),
		BornAt:   bornAt,
		TZOffset: req.TZOffset,
		Place:    place,
	}, ""
}

// chartCacheKey derives a deterministic key from the birth details. The
// place is whitespace-collapsed so formatting differences share an entry.
// The name participates too: the cached payload echoes it, so requests
// differing only by name must not share an entry.
func chartCacheKey(birth domain.BirthDetails) string {
	place := strings.Join(strings.Fields(birth.Place), " ")
	raw := fmt.Sprintf("%s|%s|%.4f|%s", birth.Name, birth.BornAt.UTC().Format(time.RFC3339), birth.TZOffset, place)

	sum := sha256.Sum256([]byte(raw))
	return "chart:" + hex.EncodeToString(sum[:])
}

func toChartResponse(chart *domain.Chart) dto.ChartResponse {
	bodies := make([]dto.BodyResponse, 0, len(chart.Bodies))

	order := append(append([]string{}, domain.Bodies...), domain.BodySouthNode)
	for _, name := range order {
		res, ok := chart.Bodies[name]
		if !ok {
			continue
		}

		body := dto.BodyResponse{Body: name}
		if res.OK() {
			body.Retrograde = res.Position.Retrograde
			pos := toPositionResponse(res.Position.Position)
			body.Position = &pos
		} else {
			body.Error = res.Err
		}

		bodies = append(bodies, body)
	}

	houses := make([]dto.HouseResponse, 0, len(chart.Houses))
	for _, hc := range chart.Houses {
		houses = append(houses, dto.HouseResponse{
			House: hc.House,
			Cusp:  toPositionResponse(hc.Cusp),
		})
	}

	return dto.ChartResponse{
		ChartID:    chart.ChartID,
		Name:       chart.Birth.Name,
		BornAt:     chart.Birth.BornAt,
		TZOffset:   chart.Birth.TZOffset,
		Place:      chart.Birth.Place,
		Lon:        chart.Coordinates.Lon,
		Lat:        chart.Coordinates.Lat,
		ComputedAt: chart.ComputedAt,
		Bodies:     bodies,
		Ascendant:  toPositionResponse(chart.Ascendant),
		Midheaven:  toPositionResponse(chart.Midheaven),
		Houses:     houses,
	}
}

func toPositionResponse(b astro.SignBreakdown) dto.PositionResponse {
	return dto.PositionResponse{
		Longitude: b.Longitude,
		SignIndex: b.SignIndex,
		SignName:  b.SignName,
		Degrees:   b.Degrees,
		Minutes:   b.Minutes,
		Seconds:   b.Seconds,
	}
}
