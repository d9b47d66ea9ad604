package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/keysvc/internal/validation"
)

func TestValidateKeyModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "full_model",
			raw:  `{"keyid":"key-0001","key":"bWF0ZXJpYWw=","longsecret":"long","version":1,"created":"2026-01-01T00:00:00Z"}`,
		},
		{
			name: "minimal_model",
			raw:  `{"keyid":"key-0001","key":"bWF0ZXJpYWw="}`,
		},
		{
			name:    "missing_keyid",
			raw:     `{"key":"bWF0ZXJpYWw="}`,
			wantErr: true,
		},
		{
			name:    "empty_key_material",
			raw:     `{"keyid":"key-0001","key":""}`,
			wantErr: true,
		},
		{
			name:    "wrong_version_type",
			raw:     `{"keyid":"key-0001","key":"bWF0ZXJpYWw=","version":"one"}`,
			wantErr: true,
		},
		{
			name:    "not_an_object",
			raw:     `["keyid","key"]`,
			wantErr: true,
		},
		{
			name:    "not_json",
			raw:     `<html></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validation.ValidateKeyModel([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateKeyModelReportsAllViolations(t *testing.T) {
	t.Parallel()

	err := validation.ValidateKeyModel([]byte(`{"version":-1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyid")
	assert.Contains(t, err.Error(), "key")
	assert.Contains(t, err.Error(), "version")
}
