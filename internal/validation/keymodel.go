// Package validation checks key service response bodies against the
// documented key model contract. The client itself only requires the
// fields it consumes; this stricter check is used by 'keysvc doctor' to
// surface contract drift before it turns into decode failures.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// keyModelSchema is the documented shape of a key service response body.
const keyModelSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "KeyModel",
  "type": "object",
  "required": ["keyid", "key"],
  "properties": {
    "keyid":      { "type": "string", "minLength": 1 },
    "key":        { "type": "string", "minLength": 1 },
    "longsecret": { "type": "string" },
    "version":    { "type": "integer", "minimum": 0 },
    "created":    { "type": "string" }
  }
}`

// ValidateKeyModel checks a raw response body against the key model
// schema and reports every violation at once.
func ValidateKeyModel(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(keyModelSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("key model does not match contract:\n  - %s", strings.Join(errorMessages, "\n  - "))
	}

	return nil
}
