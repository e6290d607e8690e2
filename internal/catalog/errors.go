package catalog

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorKind classifies a failed catalog request.
type ErrorKind int

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport ErrorKind = iota
	// KindHTTP means the catalog answered with a non-2xx status.
	KindHTTP
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// FetchError is the single error kind returned by every Client call.
type FetchError struct {
	Endpoint   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("catalog %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying transport failure was a timeout.
func (e *FetchError) Timeout() bool {
	if e.Kind != KindTransport || e.Err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(e.Err, &urlErr) && urlErr.Timeout()
}

// IsNotFound returns true if err is a catalog 404.
func IsNotFound(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.Kind == KindHTTP && fetchErr.StatusCode == 404
}

func transportError(endpoint string, err error) *FetchError {
	return &FetchError{Endpoint: endpoint, Kind: KindTransport, Err: err}
}

func statusError(endpoint string, status int, body string) *FetchError {
	return &FetchError{
		Endpoint:   endpoint,
		Kind:       KindHTTP,
		StatusCode: status,
		Err:        fmt.Errorf("TMDB API error (status %d): %s", status, body),
	}
}
