package geocodefarm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a GeocodeFarm lookup can surface.
type ErrorKind int

const (
	// KindService is any non-success status without a more specific mapping.
	KindService ErrorKind = iota
	// KindInvalidInput is a malformed query detected before any request.
	KindInvalidInput
	// KindAuthentication means the provider rejected the API key.
	KindAuthentication
	// KindQuotaExceeded means the provider usage limit was hit.
	KindQuotaExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindAuthentication:
		return "authentication_failure"
	case KindQuotaExceeded:
		return "quota_exceeded"
	default:
		return "service_error"
	}
}

// Error is returned for every failure the adapter itself detects. Detail
// carries the provider access token for service failures.
type Error struct {
	Kind   ErrorKind
	Detail string
}

var (
	ErrInvalidInput   = &Error{Kind: KindInvalidInput}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrQuotaExceeded  = &Error{Kind: KindQuotaExceeded}
	ErrService        = &Error{Kind: KindService}

	// ErrMalformedResponse is returned when a body does not follow the
	// geocoding_results envelope.
	ErrMalformedResponse = errors.New("geocodefarm: malformed response")
)

// accessErrorKinds maps STATUS.access tokens onto error kinds. Tokens missing
// from the table become KindService.
var accessErrorKinds = map[string]ErrorKind{
	"API_KEY_INVALID":  KindAuthentication,
	"OVER_QUERY_LIMIT": KindQuotaExceeded,
}

func accessError(token string) *Error {
	kind, ok := accessErrorKinds[token]
	if !ok {
		kind = KindService
	}

	return &Error{Kind: kind, Detail: token}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("geocodefarm: %s", e.Kind)
	}

	return fmt.Sprintf("geocodefarm: %s: %s", e.Kind, e.Detail)
}

// Is matches another *Error of the same kind. A target with a detail only
// matches that exact detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Detail == "" || t.Detail == e.Detail
}

// KindOf reports the kind of a geocodefarm error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}
