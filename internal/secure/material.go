// Package secure provides memory-safe handling of key material while the
// CLI holds it.
//
// It wraps the memguard library: the material is encrypted at rest in
// memory (XSalsa20Poly1305), mlocked against swapping and guarded against
// overflow. If mlock is unavailable, memguard degrades to standard memory.
//
// Call memguard.Purge at process exit (main does this) to wipe every
// enclave this package created.
package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDiscarded is returned when material is accessed after Discard.
var ErrDiscarded = errors.New("key material already discarded")

// Material holds one key material blob in a protected memory region.
// The zero value is not usable; create it with Hold.
type Material struct {
	enclave *memguard.Enclave

	mu sync.RWMutex
	// discarded allows idempotent Discard calls and blocks use after
	// discard.
	discarded bool
}

// Hold copies data into a protected region. The caller should zero its
// own copy afterwards.
func Hold(data []byte) *Material {
	return &Material{enclave: memguard.NewEnclave(data)}
}

// Open decrypts the material into a locked buffer. The caller MUST call
// Destroy on the returned buffer when done to wipe the plaintext.
func (m *Material) Open() (*memguard.LockedBuffer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.discarded {
		return nil, ErrDiscarded
	}
	return m.enclave.Open()
}

// WithBytes opens the material, hands the plaintext to fn and wipes it
// again before returning. The slice must not escape fn.
func (m *Material) WithBytes(fn func([]byte) error) error {
	locked, err := m.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()
	return fn(locked.Bytes())
}

// Discard marks the material as unusable. The encrypted enclave itself is
// garbage collected; a full wipe happens at memguard.Purge. Idempotent.
func (m *Material) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.discarded {
		return
	}
	m.enclave = nil
	m.discarded = true
}
