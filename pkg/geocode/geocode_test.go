package geocode_test

import (
	"errors"
	"testing"

	"github.com/codingsince1985/geo-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/geofarm/pkg/geocode"
)

type stubGeocoder struct {
	location *geo.Location
	address  *geo.Address
	err      error
}

func (s stubGeocoder) Geocode(string) (*geo.Location, error) { return s.location, s.err }

func (s stubGeocoder) ReverseGeocode(float64, float64) (*geo.Address, error) {
	return s.address, s.err
}

func TestClient_Geocode(t *testing.T) {
	c := geocode.NewClient(stubGeocoder{
		location: &geo.Location{Lat: 40.4168, Lng: -3.7038},
		address:  &geo.Address{Country: "Spain", CountryCode: "ES"},
	})

	got, err := c.Geocode("Madrid")
	require.NoError(t, err)
	assert.Equal(t, &geocode.Location{Latitude: 40.4168, Longitude: -3.7038, Name: "Madrid", Country: "Spain", CountryCode: "ES"}, got)
}

func TestClient_Geocode_NotFound(t *testing.T) {
	c := geocode.NewClient(stubGeocoder{})

	_, err := c.Geocode("Atlantis")
	assert.ErrorIs(t, err, geocode.ErrNotFound)
}

func TestClient_ReverseGeocode(t *testing.T) {
	testCases := []struct {
		desc     string
		address  *geo.Address
		wantName string
	}{
		{
			desc:     "formatted address is preferred",
			address:  &geo.Address{FormattedAddress: "Gran Via 1, Madrid", City: "Madrid", Country: "Spain"},
			wantName: "Gran Via 1, Madrid",
		},
		{
			desc:     "city and country otherwise",
			address:  &geo.Address{City: "Madrid", Country: "Spain"},
			wantName: "Madrid, Spain",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c := geocode.NewClient(stubGeocoder{address: tC.address})

			got, err := c.ReverseGeocode(40.4168, -3.7038)
			require.NoError(t, err)
			assert.Equal(t, tC.wantName, got.Name)
		})
	}
}

func TestClient_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	c := geocode.NewClient(stubGeocoder{err: boom})

	_, err := c.Geocode("Madrid")
	assert.ErrorIs(t, err, boom)

	_, err = c.ReverseGeocode(1, 2)
	assert.ErrorIs(t, err, boom)
}
