package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.GeocodeFarm.APIKey)
	assert.Equal(t, "https", cfg.GeocodeFarm.Scheme)
	assert.Equal(t, "www.geocode.farm", cfg.GeocodeFarm.Host)
	assert.Equal(t, "{query}", cfg.GeocodeFarm.QueryFormat)
	assert.Equal(t, 10*time.Second, cfg.GeocodeFarm.Timeout)
	assert.Empty(t, cfg.ProxyURL)
	assert.Equal(t, "geofarm/1.0", cfg.UserAgent)
	assert.Equal(t, ProviderGeocodeFarm, cfg.PlaceProvider)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("GEOCODEFARM_API_KEY", "k1")
	t.Setenv("GEOCODEFARM_SCHEME", "http")
	t.Setenv("GEOCODEFARM_HOST", "localhost:9999")
	t.Setenv("GEOCODEFARM_QUERY_FORMAT", "{query}, Uruguay")
	t.Setenv("GEOCODEFARM_TIMEOUT", "3s")
	t.Setenv("GEOCODEFARM_PROXY_URL", "http://proxy:3128")
	t.Setenv("PLACE_PROVIDER", "OpenStreetMap")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/geofarm")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "k1", cfg.GeocodeFarm.APIKey)
	assert.Equal(t, "http", cfg.GeocodeFarm.Scheme)
	assert.Equal(t, "localhost:9999", cfg.GeocodeFarm.Host)
	assert.Equal(t, "{query}, Uruguay", cfg.GeocodeFarm.QueryFormat)
	assert.Equal(t, 3*time.Second, cfg.GeocodeFarm.Timeout)
	assert.Equal(t, "http://proxy:3128", cfg.ProxyURL)
	assert.Equal(t, ProviderOpenstreetmap, cfg.PlaceProvider)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/geofarm", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		desc    string
		key     string
		value   string
		wantErr string
	}{
		{desc: "timeout is not a duration", key: "GEOCODEFARM_TIMEOUT", value: "soon", wantErr: "GEOCODEFARM_TIMEOUT"},
		{desc: "timeout is negative", key: "GEOCODEFARM_TIMEOUT", value: "-1s", wantErr: "GEOCODEFARM_TIMEOUT"},
		{desc: "unsupported scheme", key: "GEOCODEFARM_SCHEME", value: "ftp", wantErr: "GEOCODEFARM_SCHEME"},
		{desc: "format without placeholder", key: "GEOCODEFARM_QUERY_FORMAT", value: "%s", wantErr: "GEOCODEFARM_QUERY_FORMAT"},
		{desc: "unknown provider", key: "PLACE_PROVIDER", value: "bing", wantErr: "PLACE_PROVIDER"},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Setenv(tC.key, tC.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tC.wantErr)
		})
	}
}
