package config

import "os"

// Get returns the value of the environment variable key, or fallback when
// the variable is unset or empty. Composition roots load .env beforehand.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
