package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Mode         string `validate:"required,oneof=track overwrite"`
	ValidityDate string `validate:"omitempty,datetime=2006-01-02"`
	Name         string `validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantErr string
	}{
		{name: "valid", req: sampleRequest{Mode: "track", ValidityDate: "2025-03-02"}},
		{name: "missing mode", req: sampleRequest{}, wantErr: "mode is required"},
		{name: "unknown mode", req: sampleRequest{Mode: "append"}, wantErr: "mode must be one of: track overwrite"},
		{name: "bad date", req: sampleRequest{Mode: "track", ValidityDate: "02/03/2025"}, wantErr: "validitydate must be a date in 2006-01-02 format"},
		{name: "too long", req: sampleRequest{Mode: "track", Name: "abcdefg"}, wantErr: "name must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormatISO_RoundTrip(t *testing.T) {
	parsed, err := ParseISO("2025-03-01T10:15:30.123Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T10:15:30.123Z", FormatISO(parsed))
}
