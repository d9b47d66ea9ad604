package keyservice

import "time"

// KeyModel is the key material bundle returned by the server. The field
// set is the server's contract; unknown fields in the response body are
// ignored. The caller owns the model after return, the client keeps no
// reference to it.
type KeyModel struct {
	// KeyID correlates the key with a specific local record.
	KeyID string `json:"keyid"`

	// Key is the symmetric key material, base64 encoded as sent by the
	// server. Never log this field.
	Key string `json:"key"`

	// LongSecret is the server-issued high-entropy credential handed out
	// at creation time. It can later be exchanged for the key via
	// GetKeyViaLongSecret. Never log this field.
	LongSecret string `json:"longsecret,omitempty"`

	// Version is the key material version, when the server reports one.
	Version int `json:"version,omitempty"`

	// Created is the server-side creation timestamp, when reported.
	Created time.Time `json:"created,omitempty"`

	// Raw is the verbatim response body the model was decoded from,
	// retained for contract diagnostics (see internal/validation). It is
	// never re-sent and is excluded from serialization.
	Raw []byte `json:"-"`
}
