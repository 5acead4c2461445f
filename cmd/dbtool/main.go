package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"astro-chart-service/internal/adapters/repositories"
	"astro-chart-service/internal/config"
	"astro-chart-service/internal/platform/db"
)

// dbtool prepares the shared Postgres geocode cache used by multi-instance
// deployments (each instance keeps its charts in local SQLite).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/places.json")
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding geocode cache...")
	if err := repositories.SeedPostgresGeocodeFromJSON(db, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
