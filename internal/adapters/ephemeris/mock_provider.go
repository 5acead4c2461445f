package ephemeris

import (
	"context"
	"fmt"

	"astro-chart-service/internal/domain"
	"astro-chart-service/internal/ports"
)

// MockProvider serves fixed longitudes for tests. Bodies absent from the
// map fail their lookup; batch calls still return the siblings.
type MockProvider struct {
	Positions map[string]ports.BodyLongitude
	AnglesOut ports.Angles
	AnglesErr error
}

func NewMockProvider(positions map[string]ports.BodyLongitude, angles ports.Angles) *MockProvider {
	return &MockProvider{Positions: positions, AnglesOut: angles}
}

func (m *MockProvider) GetPosition(ctx context.Context, birth domain.BirthDetails, coords domain.Coordinates, body string) (ports.BodyLongitude, error) {
	r, ok := m.Positions[body]
	if !ok {
		return ports.BodyLongitude{}, fmt.Errorf("missing position for %q", body)
	}

	return r, nil
}

func (m *MockProvider) GetAngles(ctx context.Context, birth domain.BirthDetails, coords domain.Coordinates) (ports.Angles, error) {
	if m.AnglesErr != nil {
		return ports.Angles{}, m.AnglesErr
	}
	return m.AnglesOut, nil
}

// MockBatchProvider layers the batch extension over MockProvider.
type MockBatchProvider struct {
	MockProvider
}

func (m *MockBatchProvider) GetPositions(ctx context.Context, birth domain.BirthDetails, coords domain.Coordinates, bodies []string) (map[string]ports.BodyLongitude, error) {
	out := make(map[string]ports.BodyLongitude, len(bodies))
	for _, b := range bodies {
		if r, ok := m.Positions[b]; ok {
			out[b] = r
		}
	}

	return out, nil
}
