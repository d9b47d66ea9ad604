package keyservice

import (
	"fmt"
	"net/url"
	"time"
)

// Version identifies the key service protocol version. It is rendered
// directly into the request path, e.g. ".../keyservice/v1/key".
type Version string

// Known protocol versions.
const (
	V1 Version = "v1"
)

// DefaultTimeout bounds a single round trip when the caller does not
// inject its own http.Client.
const DefaultTimeout = 30 * time.Second

// Config holds the connection parameters for a key service realm.
//
// RealmBaseURL points at the realm on the identity server, e.g.
// "https://id.example.com/auth/realms/demo". The client always appends
// "keyservice/{version}" plus the endpoint path to it; the base URL must
// not already carry a trailing keyservice segment.
//
// Config is immutable once handed to New and safe for concurrent reads by
// any number of in-flight operations.
type Config struct {
	// RealmBaseURL is the absolute http(s) URL of the realm.
	RealmBaseURL string

	// Version selects the protocol version path segment. Defaults to V1.
	Version Version

	// Timeout bounds a single request round trip. Zero means
	// DefaultTimeout. Ignored when a custom http.Client is injected.
	Timeout time.Duration
}

// Validate checks that the configuration can produce request URLs.
// A client must never issue a request from an invalid configuration;
// New refuses to construct one.
func (c Config) Validate() error {
	if _, err := c.baseURL(); err != nil {
		return err
	}
	return nil
}

// baseURL parses and checks RealmBaseURL. Misconfiguration is a
// programming error on the caller's side, surfaced as
// KindInvalidConfiguration rather than terminating the process.
func (c Config) baseURL() (*url.URL, error) {
	if c.RealmBaseURL == "" {
		return nil, &Error{
			Op:   "configure",
			Kind: KindInvalidConfiguration,
			Err:  fmt.Errorf("realm base URL is not set"),
		}
	}

	u, err := url.Parse(c.RealmBaseURL)
	if err != nil {
		return nil, &Error{
			Op:   "configure",
			Kind: KindInvalidConfiguration,
			Err:  fmt.Errorf("realm base URL %q does not parse: %w", c.RealmBaseURL, err),
		}
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &Error{
			Op:   "configure",
			Kind: KindInvalidConfiguration,
			Err:  fmt.Errorf("realm base URL %q must be an absolute http(s) URL", c.RealmBaseURL),
		}
	}
	if u.Host == "" {
		return nil, &Error{
			Op:   "configure",
			Kind: KindInvalidConfiguration,
			Err:  fmt.Errorf("realm base URL %q has no host", c.RealmBaseURL),
		}
	}

	switch c.Version {
	case "", V1:
		// ok
	default:
		return nil, &Error{
			Op:   "configure",
			Kind: KindInvalidConfiguration,
			Err:  fmt.Errorf("unsupported protocol version %q", c.Version),
		}
	}

	return u, nil
}

// version returns the effective protocol version.
func (c Config) version() Version {
	if c.Version == "" {
		return V1
	}
	return c.Version
}

// timeout returns the effective round-trip timeout.
func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
