package forms_test

import (
	"strings"
	"testing"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstKey(t *testing.T, err error) string {
	t.Helper()
	de, ok := decode.AsError(err)
	require.True(t, ok, "error = %v, want *decode.Error", err)
	v, ok := de.First()
	require.True(t, ok)
	return v.MessageKey
}

func TestDecodeRegistration(t *testing.T) {
	tests := []struct {
		desc     string
		input    any
		wantKey  string
		wantName string
	}{
		{"valid", map[string]any{"username": "valid_name-1"}, "", "valid_name-1"},
		{"minimum length", map[string]any{"username": "abc"}, "", "abc"},
		{"maximum length", map[string]any{"username": strings.Repeat("a", 30)}, "", strings.Repeat("a", 30)},
		{"too short", map[string]any{"username": "ab"}, forms.KeyUsernameTooShort, ""},
		{"too long", map[string]any{"username": strings.Repeat("a", 31)}, forms.KeyUsernameTooLong, ""},
		{"invalid characters", map[string]any{"username": "bad name!"}, forms.KeyUsernameInvalid, ""},
		{"empty", map[string]any{"username": ""}, forms.KeyUsernameRequired, ""},
		{"missing", map[string]any{}, forms.KeyUsernameRequired, ""},
		{"null", map[string]any{"username": nil}, forms.KeyUsernameRequired, ""},
		{"short and invalid", map[string]any{"username": "!"}, forms.KeyUsernameTooShort, ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := forms.DecodeRegistration(tt.input)
			if tt.wantKey == "" {
				require.NoError(t, err)
				assert.Equal(t, forms.Registration{Username: tt.wantName}, got)
				return
			}
			assert.Equal(t, tt.wantKey, firstKey(t, err))
		})
	}
}

func TestDecodeRegistration_IgnoresExtraFields(t *testing.T) {
	got, err := forms.DecodeRegistration(map[string]any{"username": "miles", "password": "x"})
	require.NoError(t, err)
	assert.Equal(t, "miles", got.Username)
}

func TestDecodeRegistration_FromJSON(t *testing.T) {
	_, err := decode.JSON[forms.Registration](forms.RegistrationSchema, []byte(`{"username": 12}`))
	assert.Equal(t, "invalidType", firstKey(t, err))
}
