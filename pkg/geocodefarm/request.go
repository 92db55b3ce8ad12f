package geocodefarm

import (
	"context"
	"log/slog"
	"net/url"
)

// RequestBuilder turns queries into transport ready GeocodeFarm URLs. It
// holds no mutable state and is safe for concurrent use.
type RequestBuilder struct {
	endpoints Endpoints
	apiKey    string
	format    QueryFormat
	logger    *slog.Logger
}

func NewRequestBuilder(endpoints Endpoints, apiKey string, format QueryFormat, logger *slog.Logger) *RequestBuilder {
	if logger == nil {
		logger = slog.Default()
	}

	return &RequestBuilder{endpoints: endpoints, apiKey: apiKey, format: format, logger: logger}
}

// Forward builds the forward geocoding URL for a free-text query.
func (b *RequestBuilder) Forward(query string) string {
	params := url.Values{}
	params.Set("addr", b.format.Apply(query))

	return b.build("geocode", b.endpoints.Forward(), params)
}

// Reverse builds the reverse geocoding URL. Queries that are not a
// coordinate pair fail with KindInvalidInput.
func (b *RequestBuilder) Reverse(q ReverseQuery) (string, error) {
	lat, lon, err := splitCoordinates(q)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)

	return b.build("reverse", b.endpoints.Reverse(), params), nil
}

func (b *RequestBuilder) build(operation, base string, params url.Values) string {
	if b.apiKey != "" {
		params.Set("key", b.apiKey)
	}

	u := base + "?" + params.Encode()

	if b.logger.Enabled(context.Background(), slog.LevelDebug) {
		redacted := url.Values{}
		for k, v := range params {
			redacted[k] = v
		}
		if redacted.Has("key") {
			redacted.Set("key", "*****")
		}

		b.logger.Debug("geocodefarm request built", "operation", operation, "url", base+"?"+redacted.Encode())
	}

	return u
}
