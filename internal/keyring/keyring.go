// Package keyring caches server-issued long secrets in the OS keyring
// (Keychain on macOS, Secret Service on Linux, Credential Manager on
// Windows). The cache is strictly a convenience: losing it only means the
// user has to supply the original secret again.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no long secret is cached for a key id.
var ErrNotFound = errors.New("no long secret cached for key id")

// Cache stores long secrets under one keyring service name, keyed by the
// key id they belong to.
type Cache struct {
	service string
}

// New creates a cache under the given service name.
func New(service string) *Cache {
	return &Cache{service: service}
}

// Store saves the long secret for keyID, replacing any previous value.
func (c *Cache) Store(keyID, longSecret string) error {
	if err := keyring.Set(c.service, keyID, longSecret); err != nil {
		return fmt.Errorf("failed to store long secret in keyring: %w", err)
	}
	return nil
}

// Lookup returns the cached long secret for keyID.
func (c *Cache) Lookup(keyID string) (string, error) {
	secret, err := keyring.Get(c.service, keyID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read long secret from keyring: %w", err)
	}
	return secret, nil
}

// Delete removes the cached long secret for keyID. Missing entries are
// not an error.
func (c *Cache) Delete(keyID string) error {
	err := keyring.Delete(c.service, keyID)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete long secret from keyring: %w", err)
	}
	return nil
}
