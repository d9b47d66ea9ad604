package keyservice

import (
	"context"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/systmms/keysvc/internal/logging"
)

// Operation names used in errors, logs and metrics.
const (
	opCreateKey        = "createkey"
	opGetKey           = "getkey"
	opGetKeyLongSecret = "getkey.longsecret"
)

// Client talks to one key service realm. Construct it with New; the zero
// value is not usable. A Client owns its transport (nothing process-wide
// is shared) and is safe for concurrent use.
type Client struct {
	cfg  Config
	base *url.URL
	exec *executor
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithHTTPClient injects the transport. The caller keeps responsibility
// for its timeout; Config.Timeout is not applied to an injected client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.exec.hc = hc
		}
	}
}

// WithLogger routes diagnostic output through the given logger. Secrets
// never appear in it.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.exec.logger = logger
		}
	}
}

// WithMetrics registers request counters and latency histograms with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		if reg != nil {
			c.exec.metrics = newClientMetrics(reg)
		}
	}
}

// New validates cfg and builds a client for it. An invalid or missing
// configuration fails here with ErrInvalidConfiguration; a constructed
// Client can always produce request URLs.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := cfg.baseURL()
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:  cfg,
		base: base,
		exec: &executor{
			hc:     &http.Client{Timeout: cfg.timeout()},
			logger: logging.New(false, false),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetKey retrieves the key material bundle for keyID using the caller's
// secret. Exactly one POST to the key endpoint; no retry.
func (c *Client) GetKey(ctx context.Context, secret, keyID string) (*KeyModel, error) {
	return c.exec.post(ctx, opGetKey, c.endpointURL(EndpointKey), map[string]string{
		"secret": secret,
		"keyid":  keyID,
	})
}

// GetKeyViaLongSecret retrieves the key material bundle for keyID using
// the server-issued long secret returned at creation time.
func (c *Client) GetKeyViaLongSecret(ctx context.Context, longSecret, keyID string) (*KeyModel, error) {
	return c.exec.post(ctx, opGetKeyLongSecret, c.endpointURL(EndpointKey), map[string]string{
		"longsecret": longSecret,
		"keyid":      keyID,
	})
}

// CreateKey registers new key material for secret and returns the bundle,
// including the server-issued long secret.
func (c *Client) CreateKey(ctx context.Context, secret string) (*KeyModel, error) {
	return c.exec.post(ctx, opCreateKey, c.endpointURL(EndpointCreateKey), map[string]string{
		"secret": secret,
	})
}

// EndpointURL exposes the resolved absolute URL for an endpoint. Useful
// for diagnostics; the URL is a pure function of the configuration.
func (c *Client) EndpointURL(ep Endpoint) string {
	return c.endpointURL(ep).String()
}

func (c *Client) endpointURL(ep Endpoint) *url.URL {
	return resolveURL(c.base, c.cfg.version(), ep)
}
