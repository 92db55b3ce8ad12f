package whttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

var (
	ErrTimeout       = errors.New("request timed out")
	ErrMalformedBody = errors.New("response body is not valid JSON")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response: (%d) %s", e.StatusCode, e.Body)
}

// JSONCaller GETs URLs and returns their JSON bodies.
type JSONCaller struct {
	h         *http.Client
	userAgent string
}

func NewJSONCaller(h *http.Client, userAgent string) *JSONCaller {
	return &JSONCaller{h: h, userAgent: userAgent}
}

// Call performs a GET against url. A positive timeout bounds this call
// only. It returns a nil body for 204 responses and empty bodies.
func (c *JSONCaller) Call(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.h.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body = bytes.TrimSpace(body)
	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}

	if !json.Valid(body) {
		return nil, ErrMalformedBody
	}

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
