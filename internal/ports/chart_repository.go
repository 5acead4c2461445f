package ports

import (
	"context"

	"astro-chart-service/internal/domain"
)

// Port: a boundary for persisting and retrieving computed charts.
type ChartRepository interface {
	// Persist a computed chart and populate its ChartID.
	SaveChart(ctx context.Context, chart *domain.Chart) error
	// Retrieve recently computed charts, newest first.
	ListCharts(ctx context.Context) ([]*domain.Chart, error)
}
