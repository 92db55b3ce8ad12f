package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/manzanit0/geofarm/pkg/geocodefarm"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "resolve an address to coordinates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := callOptions()
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		res, err := c.Geocode(cmd.Context(), strings.Join(args, " "), opts...)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), NewResultsTable(res))
		return nil
	},
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <lat, lon>",
	Short: "resolve a coordinate pair to addresses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := callOptions()
		if err != nil {
			return err
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		// "51.5 -0.15" and "51.5, -0.15" are both accepted.
		query := strings.Join(args, " ")
		if !strings.Contains(query, ",") {
			query = strings.Join(strings.Fields(query), ",")
		}

		res, err := c.Reverse(cmd.Context(), geocodefarm.PointString(query), opts...)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), NewResultsTable(res))
		return nil
	},
}

func callOptions() ([]geocodefarm.Option, error) {
	opts := []geocodefarm.Option{geocodefarm.ExactlyOne(!flagAll)}

	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}

		opts = append(opts, geocodefarm.Timeout(d))
	}

	return opts, nil
}
