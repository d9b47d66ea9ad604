// Package config loads and validates the keysvc CLI configuration from
// keysvc.yaml and the environment.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	kserrors "github.com/systmms/keysvc/internal/errors"
	"github.com/systmms/keysvc/internal/logging"
	"github.com/systmms/keysvc/pkg/keyservice"
)

// Defaults applied when neither file nor environment specify a value.
const (
	DefaultPath           = "keysvc.yaml"
	DefaultKeyringService = "keysvc"
	DefaultTimeoutMs      = 30000
)

// Environment variables overriding the file.
const (
	EnvRealmURL       = "KEYSVC_REALM_URL"
	EnvVersion        = "KEYSVC_VERSION"
	EnvTimeoutMs      = "KEYSVC_TIMEOUT_MS"
	EnvKeyringService = "KEYSVC_KEYRING_SERVICE"
)

// Config holds the runtime configuration of the CLI.
type Config struct {
	Path     string
	Logger   *logging.Logger
	Settings *Settings
}

// Settings is the keysvc.yaml structure.
type Settings struct {
	// RealmBaseURL is the absolute URL of the realm on the identity
	// server, e.g. "https://id.example.com/auth/realms/demo".
	RealmBaseURL string `yaml:"realm_base_url"`

	// Version is the key service protocol version. Defaults to "v1".
	Version string `yaml:"version,omitempty"`

	// TimeoutMs bounds one request round trip in milliseconds.
	TimeoutMs int `yaml:"timeout_ms,omitempty"`

	// KeyringService names the OS keyring service under which long
	// secrets are cached. Empty disables the cache.
	KeyringService string `yaml:"keyring_service,omitempty"`

	// Metrics enables prometheus instrumentation of the client.
	Metrics bool `yaml:"metrics,omitempty"`
}

// Load reads the config file (when present), applies environment
// overrides and validates the result. A missing file is fine as long as
// the environment supplies the realm URL.
func (c *Config) Load() error {
	settings := &Settings{
		Version:        string(keyservice.V1),
		TimeoutMs:      DefaultTimeoutMs,
		KeyringService: DefaultKeyringService,
	}

	path := c.Path
	if path == "" {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(settings); err != nil {
			return kserrors.ConfigError{
				Field:      "file",
				Value:      path,
				Message:    fmt.Sprintf("invalid YAML: %v", err),
				Suggestion: "Check indentation and field names in " + path,
			}
		}
	case os.IsNotExist(err):
		// No file: environment must carry the realm URL.
	default:
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(settings)

	if err := settings.validate(); err != nil {
		return err
	}

	c.Settings = settings
	return nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv(EnvRealmURL); v != "" {
		s.RealmBaseURL = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		s.Version = v
	}
	if v := os.Getenv(EnvTimeoutMs); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			s.TimeoutMs = ms
		}
	}
	if v, ok := os.LookupEnv(EnvKeyringService); ok {
		s.KeyringService = v
	}
}

func (s *Settings) validate() error {
	if s.RealmBaseURL == "" {
		return kserrors.ConfigError{
			Field:      "realm_base_url",
			Message:    "realm base URL is required",
			Suggestion: fmt.Sprintf("Set realm_base_url in %s or export %s", DefaultPath, EnvRealmURL),
		}
	}
	if s.TimeoutMs < 0 {
		return kserrors.ConfigError{
			Field:   "timeout_ms",
			Value:   s.TimeoutMs,
			Message: "timeout must not be negative",
		}
	}

	// Delegate URL and version checks to the client's own validation so
	// the CLI and library agree on what a usable configuration is.
	if err := s.ClientConfig().Validate(); err != nil {
		return kserrors.ConfigError{
			Field:      "realm_base_url",
			Value:      s.RealmBaseURL,
			Message:    err.Error(),
			Suggestion: "The realm base URL must be an absolute http(s) URL and the version one of: v1",
		}
	}
	return nil
}

// ClientConfig maps the settings onto the client configuration.
func (s *Settings) ClientConfig() keyservice.Config {
	return keyservice.Config{
		RealmBaseURL: s.RealmBaseURL,
		Version:      keyservice.Version(s.Version),
		Timeout:      time.Duration(s.TimeoutMs) * time.Millisecond,
	}
}
