package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"astro-chart-service/internal/adapters/cache"
	"astro-chart-service/internal/adapters/ephemeris"
	"astro-chart-service/internal/adapters/repositories"
	"astro-chart-service/internal/api"
	"astro-chart-service/internal/config"
	pgdb "astro-chart-service/internal/platform/db"
	"astro-chart-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, astrology API) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/places.json")
	port := config.Get("PORT", "8080")
	apiURL := config.Get("ASTRO_API_URL", "https://api.astrologyapi.example.com")

	apiKey := os.Getenv("ASTRO_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		log.Fatal("ASTRO_API_KEY is required")
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed well-known birthplaces on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	// The provider uses a persistent geocode cache to avoid repeated geocode
	// calls: the local SQLite database by default, or a shared Postgres cache
	// when DATABASE_URL is configured (see cmd/dbtool for its schema).
	var geocodeCache ports.GeocodeCache = cache.NewSqliteGeocodeCache(db)
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := pgdb.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		geocodeCache = cache.NewSQLGeocodeCache(pg)
	}

	provider, err := ephemeris.NewAstroAPIProvider(apiKey, apiURL, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	// Chart responses are cached in Redis when an address is configured.
	var chartCache ports.ChartCache
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		rc := cache.NewRedisChartCache(addr, 24*time.Hour)
		defer rc.Close()
		chartCache = rc
	}

	repo := repositories.NewSqliteChartRepository(db)
	router := api.NewRouter(provider, provider, repo, chartCache)

	// Timeouts are tuned for cold-cache chart computation (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedGeocodeFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
