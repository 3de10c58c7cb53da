package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/setlist/pkg/forms"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListForms(t *testing.T) {
	s := NewServer(nil)

	resp, err := s.handleListForms(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	require.Len(t, resp.Forms, len(forms.All()))
	assert.Equal(t, "event", resp.Forms[0].Name)
	assert.Equal(t, "object", resp.Forms[0].Schema.Type)
}

func TestDecodeForm(t *testing.T) {
	s := NewServer(nil)
	ctx := context.Background()

	resp, err := s.handleDecodeForm(ctx, mcp.CallToolRequest{}, DecodeFormArgs{
		Form:    "registration",
		Payload: `{"username": "mingus"}`,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, forms.Registration{Username: "mingus"}, resp.Value)
	assert.Empty(t, resp.Violations)
}

func TestDecodeForm_Rejected(t *testing.T) {
	s := NewServer(nil)
	ctx := context.Background()

	tests := []struct {
		desc    string
		payload string
		wantKey string
	}{
		{"violation", `{"username": "bad name!"}`, forms.KeyUsernameInvalid},
		{"malformed", `{"username"`, "malformedInput"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			resp, err := s.handleDecodeForm(ctx, mcp.CallToolRequest{}, DecodeFormArgs{Form: "registration", Payload: tt.payload})
			require.NoError(t, err)
			assert.False(t, resp.OK)
			assert.Nil(t, resp.Value)
			require.NotEmpty(t, resp.Violations)
			assert.Equal(t, tt.wantKey, resp.Violations[0].MessageKey)
		})
	}
}

func TestDecodeForm_UnknownForm(t *testing.T) {
	s := NewServer(nil)

	_, err := s.handleDecodeForm(context.Background(), mcp.CallToolRequest{}, DecodeFormArgs{Form: "invoice", Payload: "{}"})
	assert.ErrorContains(t, err, "invoice")
}
