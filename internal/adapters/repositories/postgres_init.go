package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the shared Postgres geocode cache schema. Charts stay in each
// instance's local SQLite database; only geocoding is shared.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		place TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init postgres schema: create geocode_cache: %w", err)
	}

	return nil
}

// Populate the shared Postgres geocode cache from a JSON seed file.
func SeedPostgresGeocodeFromJSON(db *sql.DB, jsonPath string) error {
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
	INSERT INTO geocode_cache (place, lon, lat)
	VALUES ($1, $2, $3)
	ON CONFLICT (place) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
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
