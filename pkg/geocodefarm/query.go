package geocodefarm

import (
	"fmt"
	"strconv"
	"strings"
)

// QueryPlaceholder is the slot a QueryFormat substitutes the query into.
const QueryPlaceholder = "{query}"

// QueryFormat wraps a free-text query before it is sent, e.g.
// "{query}, Uruguay". The template is split once when it is built.
type QueryFormat struct {
	prefix string
	suffix string
}

func NewQueryFormat(template string) (QueryFormat, error) {
	if template == "" {
		return QueryFormat{}, nil
	}

	if n := strings.Count(template, QueryPlaceholder); n != 1 {
		return QueryFormat{}, fmt.Errorf("query format %q must contain %s exactly once, found %d", template, QueryPlaceholder, n)
	}

	prefix, suffix, _ := strings.Cut(template, QueryPlaceholder)
	return QueryFormat{prefix: prefix, suffix: suffix}, nil
}

func (f QueryFormat) Apply(query string) string {
	return f.prefix + query + f.suffix
}

// ReverseQuery is anything that can be rendered as a "lat, lon" string.
type ReverseQuery interface {
	CoordinateString() string
}

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) CoordinateString() string {
	return formatCoordinates([]float64{p.Latitude, p.Longitude})
}

func (p Point) String() string { return p.CoordinateString() }

// LatLon is an ordered latitude, longitude sequence. Any length other than
// two is rejected when the reverse URL is built.
type LatLon []float64

func (ll LatLon) CoordinateString() string {
	return formatCoordinates(ll)
}

// PointString is a query written as "lat, lon". It is used as is.
type PointString string

func (s PointString) CoordinateString() string { return string(s) }

func formatCoordinates(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strings.Join(parts, ", ")
}

// splitCoordinates applies the reverse query shape rule: exactly two
// comma separated parts, whitespace trimmed.
func splitCoordinates(q ReverseQuery) (lat, lon string, err error) {
	if q == nil {
		return "", "", &Error{Kind: KindInvalidInput, Detail: "must be a coordinate pair or point"}
	}

	parts := strings.Split(q.CoordinateString(), ",")
	if len(parts) != 2 {
		return "", "", &Error{Kind: KindInvalidInput, Detail: "must be a coordinate pair or point"}
	}

	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}
