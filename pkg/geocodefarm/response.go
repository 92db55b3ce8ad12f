package geocodefarm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Location is one normalized GeocodeFarm result. DisplayName and Point are
// nil when the provider did not return them.
type Location struct {
	DisplayName *string
	Point       *Point
	Accuracy    string
	Components  AddressComponents

	// Raw is the provider's result entry as decoded JSON.
	Raw map[string]any
}

// AddressComponents are the structured ADDRESS fields of a result.
type AddressComponents struct {
	StreetNumber string `json:"street_number,omitempty"`
	StreetName   string `json:"street_name,omitempty"`
	Locality     string `json:"locality,omitempty"`
	County       string `json:"county,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

// Name returns the display name, or an empty string when there is none.
func (l Location) Name() string {
	if l.DisplayName == nil {
		return ""
	}

	return *l.DisplayName
}

// Result is the outcome of a successful call. A Result that is not Found
// means the provider reported no results, which is not an error.
type Result struct {
	found     bool
	locations []Location
}

func NoResult() Result { return Result{} }

func (r Result) Found() bool { return r.found }

// Locations returns the results in provider order.
func (r Result) Locations() []Location { return r.locations }

func (r Result) First() (Location, bool) {
	if len(r.locations) == 0 {
		return Location{}, false
	}

	return r.locations[0], true
}

type envelope struct {
	Results *resultSet `json:"geocoding_results"`
}

type resultSet struct {
	Status  status            `json:"STATUS"`
	Results []json.RawMessage `json:"RESULTS"`
}

type status struct {
	Status string `json:"status"`
	Access string `json:"access"`
}

type outcome int

const (
	outcomeEmpty outcome = iota
	outcomeSuccess
	outcomeFailure
)

func classify(s status) outcome {
	switch {
	case strings.Contains(s.Status, "NO_RESULTS"):
		return outcomeEmpty
	case s.Status == "SUCCESS":
		return outcomeSuccess
	default:
		return outcomeFailure
	}
}

// ParseResponse interprets a raw GeocodeFarm body. An empty body yields
// NoResult. With exactlyOne only the first location is kept.
func ParseResponse(body []byte, exactlyOne bool) (Result, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return NoResult(), nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return env.interpret(exactlyOne)
}

func (e *envelope) interpret(exactlyOne bool) (Result, error) {
	if e.Results == nil {
		return Result{}, fmt.Errorf("%w: missing geocoding_results", ErrMalformedResponse)
	}

	switch classify(e.Results.Status) {
	case outcomeEmpty:
		return NoResult(), nil
	case outcomeFailure:
		return Result{}, accessError(e.Results.Status.Access)
	}

	locations, err := decodeResults(e.Results.Results)
	if err != nil {
		return Result{}, err
	}

	return selectResults(locations, exactlyOne), nil
}

func selectResults(locations []Location, exactlyOne bool) Result {
	if !exactlyOne {
		return Result{found: true, locations: locations}
	}

	// SUCCESS with an empty RESULTS list has nothing to pick.
	if len(locations) == 0 {
		return NoResult()
	}

	return Result{found: true, locations: locations[:1]}
}

type resultRecord struct {
	Coordinates struct {
		Latitude  coordinate `json:"latitude"`
		Longitude coordinate `json:"longitude"`
	} `json:"COORDINATES"`
	Address  addressRecord `json:"ADDRESS"`
	Accuracy string        `json:"accuracy"`
}

type addressRecord struct {
	AddressReturned *string `json:"address_returned"`
	Address         *string `json:"address"`
	StreetNumber    string  `json:"street_number"`
	StreetName      string  `json:"street_name"`
	Locality        string  `json:"locality"`
	Admin2          string  `json:"admin_2"`
	Admin1          string  `json:"admin_1"`
	PostalCode      string  `json:"postal_code"`
	Country         string  `json:"country"`
}

// coordinate holds a latitude or longitude as sent by the provider, which
// is usually a numeric string. Empty strings, zero and null count as unset.
type coordinate struct {
	value string
}

func (c *coordinate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &c.value)
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	if f, err := n.Float64(); err == nil && f == 0 {
		return nil
	}

	c.value = n.String()
	return nil
}

func (c coordinate) set() bool { return c.value != "" }

func decodeResults(entries []json.RawMessage) ([]Location, error) {
	locations := make([]Location, 0, len(entries))
	for i, entry := range entries {
		loc, err := decodeResult(entry)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}

		locations = append(locations, loc)
	}

	return locations, nil
}

func decodeResult(entry json.RawMessage) (Location, error) {
	var rec resultRecord
	if err := json.Unmarshal(entry, &rec); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(entry, &raw); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	loc := Location{
		DisplayName: rec.Address.AddressReturned,
		Accuracy:    rec.Accuracy,
		Components: AddressComponents{
			StreetNumber: rec.Address.StreetNumber,
			StreetName:   rec.Address.StreetName,
			Locality:     rec.Address.Locality,
			County:       rec.Address.Admin2,
			State:        rec.Address.Admin1,
			PostalCode:   rec.Address.PostalCode,
			Country:      rec.Address.Country,
		},
		Raw: raw,
	}

	if loc.DisplayName == nil {
		loc.DisplayName = rec.Address.Address
	}

	lat, lon := rec.Coordinates.Latitude, rec.Coordinates.Longitude
	if lat.set() && lon.set() {
		latitude, err := strconv.ParseFloat(strings.TrimSpace(lat.value), 64)
		if err != nil {
			return Location{}, fmt.Errorf("%w: latitude %q", ErrMalformedResponse, lat.value)
		}

		longitude, err := strconv.ParseFloat(strings.TrimSpace(lon.value), 64)
		if err != nil {
			return Location{}, fmt.Errorf("%w: longitude %q", ErrMalformedResponse, lon.value)
		}

		loc.Point = &Point{Latitude: latitude, Longitude: longitude}
	}

	return loc, nil
}
