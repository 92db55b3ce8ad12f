// package env loads the settings shared by the geofarm binaries from
// environment variables.
package env

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manzanit0/geofarm/pkg/geocodefarm"
)

const (
	ProviderGeocodeFarm   = "geocodefarm"
	ProviderOpenstreetmap = "openstreetmap"
)

type Config struct {
	GeocodeFarm geocodefarm.Config

	ProxyURL  string
	UserAgent string

	// PlaceProvider backs the single-result place endpoints.
	PlaceProvider string

	Port        string
	DatabaseURL string
	LogLevel    string
}

// Load reads the configuration, applying defaults where unset.
func Load() (*Config, error) {
	timeout, err := parseDuration("GEOCODEFARM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GeocodeFarm: geocodefarm.Config{
			APIKey:      os.Getenv("GEOCODEFARM_API_KEY"),
			Scheme:      getOrDefault("GEOCODEFARM_SCHEME", geocodefarm.DefaultScheme),
			Host:        getOrDefault("GEOCODEFARM_HOST", geocodefarm.DefaultHost),
			QueryFormat: getOrDefault("GEOCODEFARM_QUERY_FORMAT", geocodefarm.QueryPlaceholder),
			Timeout:     timeout,
		},
		ProxyURL:      os.Getenv("GEOCODEFARM_PROXY_URL"),
		UserAgent:     getOrDefault("GEOCODEFARM_USER_AGENT", "geofarm/1.0"),
		PlaceProvider: strings.ToLower(getOrDefault("PLACE_PROVIDER", ProviderGeocodeFarm)),
		Port:          getOrDefault("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      getOrDefault("LOG_LEVEL", "info"),
	}

	if _, err := geocodefarm.NewEndpoints(cfg.GeocodeFarm.Scheme, cfg.GeocodeFarm.Host); err != nil {
		return nil, fmt.Errorf("invalid GEOCODEFARM_SCHEME: %w", err)
	}

	if _, err := geocodefarm.NewQueryFormat(cfg.GeocodeFarm.QueryFormat); err != nil {
		return nil, fmt.Errorf("invalid GEOCODEFARM_QUERY_FORMAT: %w", err)
	}

	if cfg.PlaceProvider != ProviderGeocodeFarm && cfg.PlaceProvider != ProviderOpenstreetmap {
		return nil, fmt.Errorf("invalid PLACE_PROVIDER %q: must be %s or %s", cfg.PlaceProvider, ProviderGeocodeFarm, ProviderOpenstreetmap)
	}

	return cfg, nil
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}

	return d, nil
}
