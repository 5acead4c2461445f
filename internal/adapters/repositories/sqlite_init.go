package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createChartsQuery := `
	CREATE TABLE IF NOT EXISTS charts (
		chart_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		born_at TIMESTAMP NOT NULL,
		tz_offset REAL NOT NULL,
		place TEXT NOT NULL,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		computed_at TIMESTAMP NOT NULL,
		chart_json TEXT NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		place TEXT PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_charts_name
	ON charts(name);
	`

	statements := []string{
		createChartsQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type GeocodeSeed struct {
	Place string  `json:"place"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
}

// Populate the geocode cache with well-known birthplaces from a JSON file,
// so local runs avoid burning external geocoding calls on common cities.
func SeedGeocodeFromJSON(db *sql.DB, jsonPath string) error {
	rows, err := readGeocodeSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed geocode: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO geocode_cache (
		place,
		lon,
		lat
	)
	VALUES (?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed geocode: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.Exec(s.Place, s.Lon, s.Lat); err != nil {
			return fmt.Errorf("seed geocode: insert place=%q: %w", s.Place, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed geocode: commit tx: %w", err)
	}

	return nil
}

func readGeocodeSeeds(jsonPath string) ([]GeocodeSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed geocode: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed geocode: parse json: %w", err)
	}

	rows := make([]GeocodeSeed, 0, len(data))
	for i, item := range data {
		place := strings.Join(strings.Fields(item.Place), " ")
		if place == "" {
			return nil, fmt.Errorf("seed geocode: item at index %d: place cannot be empty", i)
		}

		if math.Abs(item.Lon) > 180 || math.Abs(item.Lat) > 90 {
			return nil, fmt.Errorf("seed geocode: item %q: coordinates out of range", place)
		}

		rows = append(rows, GeocodeSeed{Place: place, Lon: item.Lon, Lat: item.Lat})
	}

	return rows, nil
}
