package geocodefarm

import (
	"log/slog"
	"net/url"
	"strings"

	geo "github.com/codingsince1985/geo-golang"
)

// Geocoder returns a geo.Geocoder backed by the public GeocodeFarm host.
func Geocoder(apiKey string) geo.Geocoder {
	endpoints, _ := NewEndpoints(DefaultScheme, DefaultHost)
	return GeocoderWith(endpoints, apiKey, QueryFormat{}, nil)
}

// GeocoderWith returns a geo.Geocoder for the given endpoints. Addresses are
// wrapped by format like Client.Geocode does. Lookups go through
// geo-golang's own HTTP client and default timeout.
func GeocoderWith(endpoints Endpoints, apiKey string, format QueryFormat, logger *slog.Logger) geo.Geocoder {
	return geo.HTTPGeocoder{
		EndpointBuilder:       endpointBuilder{requests: NewRequestBuilder(endpoints, apiKey, format, logger)},
		ResponseParserFactory: func() geo.ResponseParser { return &geoResponse{} },
	}
}

type endpointBuilder struct {
	requests *RequestBuilder
}

var _ geo.EndpointBuilder = endpointBuilder{}

// GeocodeURL receives an address that geo.HTTPGeocoder already query
// escaped; it is unescaped so the builder encodes it exactly once.
func (b endpointBuilder) GeocodeURL(address string) string {
	if unescaped, err := url.QueryUnescape(address); err == nil {
		address = unescaped
	}

	return b.requests.Forward(address)
}

func (b endpointBuilder) ReverseGeocodeURL(l geo.Location) string {
	// A Point always renders as two parts, so this cannot fail.
	u, _ := b.requests.Reverse(Point{Latitude: l.Lat, Longitude: l.Lng})
	return u
}

type geoResponse struct {
	envelope
}

var _ geo.ResponseParser = (*geoResponse)(nil)

func (r *geoResponse) first() (*Location, error) {
	res, err := r.interpret(true)
	if err != nil {
		return nil, err
	}

	loc, ok := res.First()
	if !ok {
		return nil, nil
	}

	return &loc, nil
}

func (r *geoResponse) Location() (*geo.Location, error) {
	loc, err := r.first()
	if err != nil || loc == nil || loc.Point == nil {
		return nil, err
	}

	return &geo.Location{Lat: loc.Point.Latitude, Lng: loc.Point.Longitude}, nil
}

func (r *geoResponse) Address() (*geo.Address, error) {
	loc, err := r.first()
	if err != nil || loc == nil {
		return nil, err
	}

	c := loc.Components
	return &geo.Address{
		FormattedAddress: loc.Name(),
		HouseNumber:      c.StreetNumber,
		Street:           c.StreetName,
		City:             c.Locality,
		County:           c.County,
		State:            c.State,
		Postcode:         c.PostalCode,
		Country:          c.Country,
		CountryCode:      countryCode(c.Country),
	}, nil
}

// countryCode keeps the country when the provider already sent an ISO
// alpha-2 code and drops it otherwise.
func countryCode(country string) string {
	if len(country) == 2 && strings.ToUpper(country) == country {
		return country
	}

	return ""
}
