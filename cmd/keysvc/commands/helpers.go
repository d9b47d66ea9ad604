package commands

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/systmms/keysvc/internal/config"
	"github.com/systmms/keysvc/internal/keyring"
	"github.com/systmms/keysvc/pkg/keyservice"
)

// newClient builds a key service client from the loaded configuration.
// cfg.Load must have succeeded before calling this.
func newClient(cfg *config.Config) (*keyservice.Client, error) {
	opts := []keyservice.Option{
		keyservice.WithLogger(cfg.Logger),
	}
	if cfg.Settings.Metrics {
		opts = append(opts, keyservice.WithMetrics(prometheus.DefaultRegisterer))
	}
	return keyservice.New(cfg.Settings.ClientConfig(), opts...)
}

// longSecretCache returns the OS keyring cache, or nil when the keyring
// service name is configured empty.
func longSecretCache(cfg *config.Config) *keyring.Cache {
	if cfg.Settings.KeyringService == "" {
		return nil
	}
	return keyring.New(cfg.Settings.KeyringService)
}
