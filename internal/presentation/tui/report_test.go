package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/stretchr/testify/assert"
)

func TestPrintViolations(t *testing.T) {
	var buf bytes.Buffer
	PrintViolations(&buf, "song", []decode.Violation{
		{Field: "tempo", MessageKey: forms.KeyTempoOutOfRange, Reason: "500 is outside [20, 300]"},
		{MessageKey: "invalidType", Reason: "expected object, got array"},
	})

	out := buf.String()
	assert.Contains(t, out, "song rejected")
	assert.Contains(t, out, "tempo")
	assert.Contains(t, out, forms.KeyTempoOutOfRange)
	assert.Contains(t, out, "(root)")
}

func TestPrintAccepted(t *testing.T) {
	var buf bytes.Buffer
	PrintAccepted(&buf, "event")
	assert.Contains(t, buf.String(), "event accepted")
}

func TestFormsMarkdown(t *testing.T) {
	md := FormsMarkdown(forms.All())

	assert.True(t, strings.HasPrefix(md, "# Forms\n"))
	assert.Contains(t, md, "## registration")
	assert.Contains(t, md, "| username | string | yes | ")
	assert.Contains(t, md, forms.KeyUsernameTooShort)
	assert.Contains(t, md, "| user_metadata.full_name |")
	assert.Contains(t, md, "| song_ids | [string] | yes | ")
}
