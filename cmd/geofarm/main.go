package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/manzanit0/geofarm/pkg/env"
	"github.com/manzanit0/geofarm/pkg/geocodefarm"
	"github.com/manzanit0/geofarm/pkg/logger"
	"github.com/manzanit0/geofarm/pkg/whttp"
)

var rootCmd = &cobra.Command{
	Use:   "geofarm",
	Short: "forward and reverse geocoding against GeocodeFarm",
	Long: `
geofarm resolves addresses to coordinates and coordinates to addresses using
the GeocodeFarm v3 API. Configuration is read from the same GEOCODEFARM_*
environment variables the geofarm server uses.
`,
	SilenceUsage: true,
}

var (
	flagAll     bool
	flagTimeout string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagAll, "all", false, "print every result instead of only the first")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", "", "per-call timeout, e.g. 5s")

	rootCmd.AddCommand(geocodeCmd, reverseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() (*geocodefarm.Client, error) {
	cfg, err := env.Load()
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(os.Stderr, "geofarm-cli", cfg.LogLevel)

	httpClient, err := whttp.NewLoggingClient(cfg.GeocodeFarm.Timeout, cfg.ProxyURL, log)
	if err != nil {
		return nil, err
	}

	return geocodefarm.NewClient(cfg.GeocodeFarm, whttp.NewJSONCaller(httpClient, cfg.UserAgent), log)
}
