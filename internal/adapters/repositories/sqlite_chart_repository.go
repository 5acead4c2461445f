package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"astro-chart-service/internal/domain"
)

// SQLite-backed implementation of the ChartRepository port. Charts are
// stored as serialized JSON next to a few queryable columns.
type SqliteChartRepository struct{ DB *sql.DB }

func NewSqliteChartRepository(db *sql.DB) *SqliteChartRepository {
	return &SqliteChartRepository{DB: db}
}

// Persist a computed chart and populate its ChartID.
func (s *SqliteChartRepository) SaveChart(ctx context.Context, chart *domain.Chart) error {
	if s.DB == nil {
		return errors.New("sqlite chart repository: DB is nil")
	}
	if chart == nil {
		return errors.New("save chart: chart is nil")
	}

	payload, err := json.Marshal(chart)
	if err != nil {
		return fmt.Errorf("save chart: marshal chart: %w", err)
	}

	query := `
	INSERT INTO charts (
		name,
		born_at,
		tz_offset,
		place,
		lon,
		lat,
		computed_at,
		chart_json
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`

	res, err := s.DB.ExecContext(ctx, query,
		chart.Birth.Name,
		chart.Birth.BornAt.UTC(),
		chart.Birth.TZOffset,
		chart.Birth.Place,
		chart.Coordinates.Lon,
		chart.Coordinates.Lat,
		chart.ComputedAt.UTC(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save chart: insert into charts table: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("save chart: last insert id: %w", err)
	}
	chart.ChartID = int(id)

	return nil
}

// Return recently computed charts, newest first.
func (s *SqliteChartRepository) ListCharts(ctx context.Context) ([]*domain.Chart, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite chart repository: DB is nil")
	}

	query := `
	SELECT
		chart_id,
		chart_json
	FROM charts
	ORDER BY chart_id DESC
	LIMIT 50;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list charts: query charts table: %w", err)
	}
	defer rows.Close()

	charts := make([]*domain.Chart, 0, 16)
	for rows.Next() {
		var id int
		var payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("list charts: scan row: %w", err)
		}

		var chart domain.Chart
		if err := json.Unmarshal([]byte(payload), &chart); err != nil {
			return nil, fmt.Errorf("list charts: parse chart_id=%d: %w", id, err)
		}
		chart.ChartID = id

		charts = append(charts, &chart)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list charts: row iteration: %w", err)
	}

	return charts, nil
}
