// Package errors carries the user-facing error types of the keysvc CLI.
// The wire-level taxonomy lives in pkg/keyservice; this package turns
// those classified failures into messages with actionable suggestions.
package errors

import (
	"fmt"
	"strings"

	"github.com/systmms/keysvc/pkg/keyservice"
)

// UserError represents an error that should be shown to the user with
// helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context.
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// KeyServiceError wraps a classified key service failure with a
// remediation hint for CLI presentation.
func KeyServiceError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("key service error during %s", operation),
		Suggestion: keyServiceSuggestion(err),
		Err:        err,
	}
}

// keyServiceSuggestion returns a remediation hint for a classified
// key service error kind.
func keyServiceSuggestion(err error) string {
	switch keyservice.KindOf(err) {
	case keyservice.KindNoConnection:
		return "No network connection to the key service. Check your connectivity and try again"
	case keyservice.KindKeyNotFound:
		return "The key id is unknown to this realm. Verify the key id, or create a key with 'keysvc create'"
	case keyservice.KindUnauthorized:
		return "The secret was rejected. Verify the secret, or use the stored long secret with '--from-keyring'"
	case keyservice.KindRateLimited:
		return "The key service is throttling requests. Wait a moment and try again"
	case keyservice.KindUnableToDecode:
		return "The server answered with an unexpected body. Verify the realm base URL points at a key service"
	case keyservice.KindInvalidConfiguration:
		return "Check realm_base_url in keysvc.yaml; it must be an absolute http(s) URL"
	}
	return ""
}
