package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/geofarm/pkg/geocodefarm"
)

// callOptions reads exactly_one and timeout from the query string.
func callOptions(c *gin.Context) ([]geocodefarm.Option, bool, error) {
	exactlyOne := true
	if s := c.Query("exactly_one"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, false, errors.New("exactly_one must be a boolean")
		}

		exactlyOne = v
	}

	opts := []geocodefarm.Option{geocodefarm.ExactlyOne(exactlyOne)}

	if s := c.Query("timeout"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, false, errors.New("timeout must be a positive duration")
		}

		opts = append(opts, geocodefarm.Timeout(d))
	}

	return opts, exactlyOne, nil
}

// reverseQuery accepts either q="lat, lon" or separate lat and lon values.
func reverseQuery(c *gin.Context) (geocodefarm.ReverseQuery, error) {
	if q := c.Query("q"); q != "" {
		return geocodefarm.PointString(q), nil
	}

	lat, lon, err := parseLatLon(c.Query("lat"), c.Query("lon"))
	if err != nil {
		return nil, err
	}

	return geocodefarm.Point{Latitude: lat, Longitude: lon}, nil
}

func parseLatLon(latStr, lonStr string) (float64, float64, error) {
	if latStr == "" || lonStr == "" {
		return 0, 0, errors.New("missing lat and lon query parameters")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, errors.New("lat must be a number between -90 and 90")
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, errors.New("lon must be a number between -180 and 180")
	}

	return lat, lon, nil
}

type locationResponse struct {
	Name       *string                       `json:"name"`
	Latitude   *float64                      `json:"latitude"`
	Longitude  *float64                      `json:"longitude"`
	Accuracy   string                        `json:"accuracy,omitempty"`
	Components geocodefarm.AddressComponents `json:"components"`
	Raw        map[string]any                `json:"raw,omitempty"`
}

func newLocationResponse(l geocodefarm.Location) locationResponse {
	r := locationResponse{
		Name:       l.DisplayName,
		Accuracy:   l.Accuracy,
		Components: l.Components,
		Raw:        l.Raw,
	}

	if l.Point != nil {
		lat, lon := l.Point.Latitude, l.Point.Longitude
		r.Latitude = &lat
		r.Longitude = &lon
	}

	return r
}
