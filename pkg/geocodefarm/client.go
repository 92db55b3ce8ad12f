// Package geocodefarm is a client for the GeocodeFarm v3 JSON API.
//
// It builds forward and reverse geocoding URLs, hands them to a Transport and
// interprets the provider's STATUS/RESULTS envelope into normalized
// locations or typed errors. Nothing here retries, caches or rate limits.
package geocodefarm

import (
	"context"
	"log/slog"
	"time"
)

// Transport performs the HTTP call. It returns a nil body when the service
// answered with no content. Its errors are passed through untouched.
type Transport interface {
	Call(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

type Config struct {
	APIKey      string
	Scheme      string
	Host        string
	QueryFormat string

	// Timeout is the default per-call timeout handed to the transport.
	Timeout time.Duration
}

type Client struct {
	requests  *RequestBuilder
	transport Transport
	timeout   time.Duration
	logger    *slog.Logger
}

func NewClient(cfg Config, transport Transport, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	endpoints, err := NewEndpoints(cfg.Scheme, cfg.Host)
	if err != nil {
		return nil, err
	}

	format, err := NewQueryFormat(cfg.QueryFormat)
	if err != nil {
		return nil, err
	}

	return &Client{
		requests:  NewRequestBuilder(endpoints, cfg.APIKey, format, logger),
		transport: transport,
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

type callOptions struct {
	exactlyOne bool
	timeout    time.Duration
}

type Option func(*callOptions)

// ExactlyOne controls whether only the first location is returned. It
// defaults to true.
func ExactlyOne(v bool) Option {
	return func(o *callOptions) {
		o.exactlyOne = v
	}
}

// Timeout overrides the client timeout for a single call.
func Timeout(d time.Duration) Option {
	return func(o *callOptions) {
		o.timeout = d
	}
}

func (c *Client) options(opts []Option) callOptions {
	o := callOptions{exactlyOne: true, timeout: c.timeout}
	for _, f := range opts {
		f(&o)
	}

	if o.timeout <= 0 {
		o.timeout = c.timeout
	}

	return o
}

// Geocode resolves a free-text address.
func (c *Client) Geocode(ctx context.Context, query string, opts ...Option) (Result, error) {
	o := c.options(opts)
	return c.do(ctx, c.requests.Forward(query), o)
}

// Reverse resolves a coordinate pair into the closest addresses.
func (c *Client) Reverse(ctx context.Context, q ReverseQuery, opts ...Option) (Result, error) {
	o := c.options(opts)

	u, err := c.requests.Reverse(q)
	if err != nil {
		return Result{}, err
	}

	return c.do(ctx, u, o)
}

func (c *Client) do(ctx context.Context, url string, o callOptions) (Result, error) {
	body, err := c.transport.Call(ctx, url, o.timeout)
	if err != nil {
		return Result{}, err
	}

	res, err := ParseResponse(body, o.exactlyOne)
	if err != nil {
		return Result{}, err
	}

	if !res.Found() {
		c.logger.DebugContext(ctx, "geocodefarm returned no results")
	}

	return res, nil
}
