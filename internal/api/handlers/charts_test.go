package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"astro-chart-service/internal/adapters/ephemeris"
	"astro-chart-service/internal/api/dto"
	"astro-chart-service/internal/domain"
	"astro-chart-service/internal/ports"
)

type stubGeocoder struct {
	calls int
}

func (g *stubGeocoder) Geocode(ctx context.Context, place string) (domain.Coordinates, error) {
	g.calls++
	return domain.Coordinates{Lon: 72.87, Lat: 19.07}, nil
}

type stubRepo struct {
	charts []*domain.Chart
}

func (r *stubRepo) SaveChart(ctx context.Context, chart *domain.Chart) error {
	chart.ChartID = len(r.charts) + 1
	r.charts = append(r.charts, chart)
	return nil
}

func (r *stubRepo) ListCharts(ctx context.Context) ([]*domain.Chart, error) {
	return r.charts, nil
}

type memChartCache struct {
	m map[string]string
}

func (c *memChartCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.m[key]
	return v, ok
}

func (c *memChartCache) Set(ctx context.Context, key, value string) error {
	c.m[key] = value
	return nil
}

func testProvider() *ephemeris.MockProvider {
	positions := make(map[string]ports.BodyLongitude, len(domain.Bodies))
	for i, b := range domain.Bodies {
		positions[b] = ports.BodyLongitude{Longitude: float64(i) * 31.7}
	}

	angles := ports.Angles{Ascendant: 102.1, Midheaven: 12.3}
	for i := range angles.Cusps {
		angles.Cusps[i] = float64(i * 30)
	}

	return ephemeris.NewMockProvider(positions, angles)
}

func newTestHandler() (*ChartHandler, *stubGeocoder) {
	geo := &stubGeocoder{}
	return &ChartHandler{
		Geocoder: geo,
		Provider: testProvider(),
		Repo:     &stubRepo{},
		Cache:    &memChartCache{m: map[string]string{}},
	}, geo
}

const validBody = `{"name":"test subject","date":"1990-07-15","time":"14:30","tzoffset":5.5,"place":"Mumbai, India"}`

func TestCreateChart(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/charts", strings.NewReader(validBody))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var res dto.ChartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Eleven fetched bodies plus the derived South Node.
	if len(res.Bodies) != len(domain.Bodies)+1 {
		t.Fatalf("expected %d bodies, got %d", len(domain.Bodies)+1, len(res.Bodies))
	}
	if res.Bodies[len(res.Bodies)-1].Body != domain.BodySouthNode {
		t.Errorf("last body = %q, want the derived South Node", res.Bodies[len(res.Bodies)-1].Body)
	}
	if len(res.Houses) != 12 {
		t.Errorf("expected 12 houses, got %d", len(res.Houses))
	}
	if res.Ascendant.SignName != "Cancer" {
		t.Errorf("ascendant sign = %q, want Cancer (102.1°)", res.Ascendant.SignName)
	}
	if res.Place != "Mumbai, India" {
		t.Errorf("place = %q, want echo of request", res.Place)
	}
}

func TestCreateChartCacheHit(t *testing.T) {
	h, geo := newTestHandler()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/charts", strings.NewReader(validBody))
		rec := httptest.NewRecorder()
		h.Handle(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	if geo.calls != 1 {
		t.Errorf("geocoder called %d times, want 1 (second request served from cache)", geo.calls)
	}
}

func TestCreateChartCacheKeyedByName(t *testing.T) {
	h, geo := newTestHandler()

	bodies := []string{
		`{"name":"Alice","date":"1990-07-15","time":"14:30","tzoffset":5.5,"place":"Mumbai, India"}`,
		`{"name":"Bob","date":"1990-07-15","time":"14:30","tzoffset":5.5,"place":"Mumbai, India"}`,
	}

	var names []string
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/charts", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Handle(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var res dto.ChartResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		names = append(names, res.Name)
	}

	// Same birth data under a different name must not reuse the cached
	// payload: the response echoes the requester's name.
	if names[0] != "Alice" || names[1] != "Bob" {
		t.Fatalf("echoed names = %v, want [Alice Bob]", names)
	}
	if geo.calls != 2 {
		t.Errorf("geocoder called %d times, want 2 (distinct cache entries per name)", geo.calls)
	}
}

func TestCreateChartValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"unknown field", `{"name":"x","date":"1990-07-15","time":"14:30","tzoffset":0,"place":"Paris","extra":1}`},
		{"two objects", validBody + `{}`},
		{"missing place", `{"name":"x","date":"1990-07-15","time":"14:30","tzoffset":0,"place":"  "}`},
		{"bad date", `{"name":"x","date":"15/07/1990","time":"14:30","tzoffset":0,"place":"Paris"}`},
		{"bad time", `{"name":"x","date":"1990-07-15","time":"2pm","tzoffset":0,"place":"Paris"}`},
		{"tzoffset too low", `{"name":"x","date":"1990-07-15","time":"14:30","tzoffset":-13,"place":"Paris"}`},
		{"tzoffset too high", `{"name":"x","date":"1990-07-15","time":"14:30","tzoffset":15,"place":"Paris"}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, _ := newTestHandler()

			req := httptest.NewRequest(http.MethodPost, "/charts", strings.NewReader(c.body))
			rec := httptest.NewRecorder()
			h.Handle(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestListCharts(t *testing.T) {
	h, _ := newTestHandler()

	post := httptest.NewRequest(http.MethodPost, "/charts", strings.NewReader(validBody))
	h.Handle(httptest.NewRecorder(), post)

	req := httptest.NewRequest(http.MethodGet, "/charts", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res dto.ListChartsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(res.Charts) != 1 {
		t.Fatalf("expected 1 persisted chart, got %d", len(res.Charts))
	}
	if res.Charts[0].ChartID != 1 {
		t.Errorf("chart_id = %d, want 1", res.Charts[0].ChartID)
	}
}

func TestChartsMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/charts", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
