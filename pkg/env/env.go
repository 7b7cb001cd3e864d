// package env contains simple getters for the configuration shared by the
// server and the CLI. Values come from the OS environment, optionally seeded
// from a .env file in the working directory.
package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/manzanit0/locations/pkg/location"
)

const DefaultPort = "8080"

// Load reads a .env file if there is one. Variables already set in the
// environment win.
func Load() {
	_ = godotenv.Load()
}

// LocationIQConfig returns the configuration of the location search client.
func LocationIQConfig() (location.Config, error) {
	var apiKey string
	if apiKey = os.Getenv("LOCATIONIQ_API_KEY"); apiKey == "" {
		return location.Config{}, fmt.Errorf("missing LOCATIONIQ_API_KEY environment variable. Please check your environment.")
	}

	var baseURL string
	if baseURL = os.Getenv("LOCATIONIQ_API_URL"); baseURL == "" {
		baseURL = location.DefaultBaseURL
	}

	return location.Config{BaseURL: baseURL, APIKey: apiKey}, nil
}

// NominatimURL is the base URL used for reverse geocoding. Empty means the
// public OpenStreetMap instance.
func NominatimURL() string {
	return os.Getenv("NOMINATIM_URL")
}

// DatabaseURL is optional: without it searches aren't recorded.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func Port() string {
	var port string
	if port = os.Getenv("PORT"); port == "" {
		port = DefaultPort
	}

	return port
}

func Debug() bool {
	return os.Getenv("DEBUG") == "true"
}
