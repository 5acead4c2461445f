package api

import (
	"net/http"

	"astro-chart-service/internal/api/handlers"
	"astro-chart-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	geocoder ports.Geocoder,
	provider ports.EphemerisProvider,
	repo ports.ChartRepository,
	chartCache ports.ChartCache,
) http.Handler {
	mux := http.NewServeMux()

	chartHandler := &handlers.ChartHandler{
		Geocoder: geocoder,
		Provider: provider,
		Repo:     repo,
		Cache:    chartCache,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/charts", chartHandler.Handle)

	return requestIDMiddleware(loggingMiddleware(mux))
}
