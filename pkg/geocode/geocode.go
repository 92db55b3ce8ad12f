// Package geocode resolves places to a single location through any
// geo-golang provider.
package geocode

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"

	"github.com/manzanit0/geofarm/pkg/geocodefarm"
)

type Client interface {
	Geocode(query string) (*Location, error)
	ReverseGeocode(lat, lon float64) (*Location, error)
}

type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Name        string  `json:"name"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
}

// ErrNotFound is returned when the provider has no match for the query.
var ErrNotFound = errors.New("location not found")

func NewOpenstreetmapClient() *geoClient {
	return &geoClient{geocoder: openstreetmap.Geocoder()}
}

func NewGeocodeFarmClient(endpoints geocodefarm.Endpoints, apiKey string, format geocodefarm.QueryFormat, logger *slog.Logger) *geoClient {
	return &geoClient{geocoder: geocodefarm.GeocoderWith(endpoints, apiKey, format, logger)}
}

func NewClient(geocoder geo.Geocoder) *geoClient {
	return &geoClient{geocoder: geocoder}
}

type geoClient struct {
	geocoder geo.Geocoder
}

var _ Client = (*geoClient)(nil)

func (c *geoClient) Geocode(query string) (*Location, error) {
	location, err := c.geocoder.Geocode(query)
	if err != nil {
		return nil, err
	}

	if location == nil {
		return nil, fmt.Errorf("geocode %q: %w", query, ErrNotFound)
	}

	address, err := c.geocoder.ReverseGeocode(location.Lat, location.Lng)
	if err != nil {
		return nil, err
	}

	loc := &Location{
		Latitude:  location.Lat,
		Longitude: location.Lng,
		Name:      query,
	}

	if address != nil {
		loc.Country = address.Country
		loc.CountryCode = address.CountryCode
	}

	return loc, nil
}

func (c *geoClient) ReverseGeocode(lat, lon float64) (*Location, error) {
	address, err := c.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		return nil, err
	}

	if address == nil {
		return nil, fmt.Errorf("reverse geocode %f,%f: %w", lat, lon, ErrNotFound)
	}

	name := address.FormattedAddress
	if name == "" && address.City != "" {
		name = fmt.Sprintf("%s, %s", address.City, address.Country)
	}

	return &Location{
		Latitude:    lat,
		Longitude:   lon,
		Name:        name,
		Country:     address.Country,
		CountryCode: address.CountryCode,
	}, nil
}
