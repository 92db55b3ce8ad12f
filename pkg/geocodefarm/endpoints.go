package geocodefarm

import (
	"fmt"
	"strings"
)

const (
	DefaultScheme = "https"
	DefaultHost   = "www.geocode.farm"
)

// Endpoints holds the forward and reverse base URLs of a GeocodeFarm host.
type Endpoints struct {
	forward string
	reverse string
}

func NewEndpoints(scheme, host string) (Endpoints, error) {
	if scheme == "" {
		scheme = DefaultScheme
	}

	if host == "" {
		host = DefaultHost
	}

	scheme = strings.ToLower(scheme)
	if scheme != "https" && scheme != "http" {
		return Endpoints{}, fmt.Errorf("unsupported scheme %q: must be http or https", scheme)
	}

	host = strings.TrimSuffix(host, "/")

	return Endpoints{
		forward: fmt.Sprintf("%s://%s/v3/json/forward/", scheme, host),
		reverse: fmt.Sprintf("%s://%s/v3/json/reverse/", scheme, host),
	}, nil
}

func (e Endpoints) Forward() string { return e.forward }

func (e Endpoints) Reverse() string { return e.reverse }
