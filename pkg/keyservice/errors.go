package keyservice

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Kind is the classified failure reason of a key service operation. The
// set is closed: every error returned by a Client carries exactly one of
// these values.
type Kind string

const (
	// KindNoConnection means the transport reported absent network
	// connectivity (DNS failure, unreachable host, refused dial).
	KindNoConnection Kind = "no_connection"

	// KindKeyNotFound means the server does not know the requested key.
	KindKeyNotFound Kind = "key_not_found"

	// KindUnauthorized means the server rejected the supplied secret.
	KindUnauthorized Kind = "unauthorized"

	// KindRateLimited means the server throttled the request.
	KindRateLimited Kind = "rate_limited"

	// KindUnableToDecode means the request succeeded but the response
	// body did not match the expected key model schema.
	KindUnableToDecode Kind = "unable_to_decode"

	// KindInvalidConfiguration means the realm base URL is missing or
	// unparseable; no request was issued.
	KindInvalidConfiguration Kind = "invalid_configuration"

	// KindUnknown covers any other transport failure or unrecognized
	// HTTP status code. The original cause is preserved for diagnostics.
	KindUnknown Kind = "unknown"
)

// Sentinel errors, matchable with errors.Is against any *Error of the
// corresponding kind.
var (
	ErrNoConnection         = errors.New("key service unreachable: no network connection")
	ErrKeyNotFound          = errors.New("key not found")
	ErrUnauthorized         = errors.New("key service rejected the secret")
	ErrRateLimited          = errors.New("key service rate limited")
	ErrUnableToDecode       = errors.New("unable to decode key service response")
	ErrInvalidConfiguration = errors.New("key service configuration invalid")
)

// Error is the typed failure value returned by all client operations.
type Error struct {
	Op         string // operation: "configure", "createkey", "getkey", "getkey.longsecret"
	Kind       Kind
	StatusCode int   // HTTP status, when the failure came from a status code
	Err        error // underlying cause, when one exists
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("keyservice %s: %s (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("keyservice %s: %s (status %d)", e.Op, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("keyservice %s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("keyservice %s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNoConnection:
		return e.Kind == KindNoConnection
	case ErrKeyNotFound:
		return e.Kind == KindKeyNotFound
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrUnableToDecode:
		return e.Kind == KindUnableToDecode
	case ErrInvalidConfiguration:
		return e.Kind == KindInvalidConfiguration
	}
	return false
}

// IsNoConnection reports whether err is a connectivity failure.
func IsNoConnection(err error) bool { return errors.Is(err, ErrNoConnection) }

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrKeyNotFound) }

// IsUnauthorized reports whether err means the secret was rejected.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsUnableToDecode reports whether err means the response body did not
// match the key model schema.
func IsUnableToDecode(err error) bool { return errors.Is(err, ErrUnableToDecode) }

// IsInvalidConfiguration reports whether err is a configuration error.
func IsInvalidConfiguration(err error) bool { return errors.Is(err, ErrInvalidConfiguration) }

// KindOf extracts the classified kind from err, or KindUnknown when err
// was not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// classifyTransport maps a transport-level failure (no HTTP response was
// produced at all) onto the taxonomy. Only the presence or absence of a
// connectivity signal is distinguished; everything else, including
// cancellation and timeouts, becomes KindUnknown wrapping the cause.
func classifyTransport(op string, err error) *Error {
	if isNoConnection(err) {
		return &Error{Op: op, Kind: KindNoConnection, Err: err}
	}
	return &Error{Op: op, Kind: KindUnknown, Err: err}
}

// isNoConnection recognizes the transport errors that mean the network is
// absent rather than the request being malformed or cancelled. A reset
// does not count: it implies a connection was established, so it falls
// through to KindUnknown with the other mid-exchange failures.
func isNoConnection(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.ENETDOWN) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return false
}

// classifyStatus maps a non-200 HTTP status onto the taxonomy. The full
// code table is the server's contract; the recognized subset below is the
// documented one, everything else is KindUnknown carrying the code.
func classifyStatus(op string, code int) *Error {
	switch code {
	case http.StatusNotFound:
		return &Error{Op: op, Kind: KindKeyNotFound, StatusCode: code}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Op: op, Kind: KindUnauthorized, StatusCode: code}
	case http.StatusTooManyRequests:
		return &Error{Op: op, Kind: KindRateLimited, StatusCode: code}
	default:
		return &Error{Op: op, Kind: KindUnknown, StatusCode: code}
	}
}
