package whttp

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// redactedParams are query parameters never written to the logs.
var redactedParams = []string{"key", "access_key"}

type LoggingRoundTripper struct {
	Proxied http.RoundTripper
	Logger  *slog.Logger
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	t0 := time.Now()

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		lrt.Logger.ErrorContext(ctx, "outbound request failed",
			"http.request.method", req.Method,
			"http.request.url", RedactURL(req.URL),
			"error", err.Error())
		return res, err
	}

	defer res.Body.Close()

	b := bytes.NewBuffer(make([]byte, 0))
	reader := io.TeeReader(res.Body, b)

	body, err := io.ReadAll(reader)
	if err != nil {
		lrt.Logger.ErrorContext(ctx, "outbound response body read failed",
			"http.request.method", req.Method,
			"http.request.url", RedactURL(req.URL),
			"http.response.status_code", res.StatusCode,
			"error", err.Error())
		return nil, err
	}

	res.Body = io.NopCloser(b)

	lrt.Logger.InfoContext(ctx, "outbound request",
		"http.request.duration_ms", time.Since(t0).Milliseconds(),
		"http.request.method", req.Method,
		"http.request.url", RedactURL(req.URL),
		"http.response.status_code", res.StatusCode)
	lrt.Logger.DebugContext(ctx, "outbound response body", "http.response.body", string(body))

	return res, nil
}

// RedactURL renders u with credential query parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	masked := false
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "*****")
			masked = true
		}
	}

	if !masked {
		return u.String()
	}

	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

// NewLoggingClient builds an HTTP client that logs every call. proxyURL is
// optional; when empty the environment proxy settings apply.
func NewLoggingClient(timeout time.Duration, proxyURL string, logger *slog.Logger) (*http.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		p, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}

		transport.Proxy = http.ProxyURL(p)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{
		Transport: LoggingRoundTripper{Proxied: transport, Logger: logger},
		Timeout:   timeout,
	}, nil
}
