package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/muesli/termenv"
)

// PrintViolations writes one colored line per violation.
func PrintViolations(w io.Writer, form string, violations []decode.Violation) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(fmt.Sprintf("✗ %s rejected", form)).Foreground(out.Color("#fb7185")).Bold())
	for _, v := range violations {
		field := v.Field
		if field == "" {
			field = "(root)"
		}
		fmt.Fprintf(w, "  %s  %s  %s\n",
			out.String(field).Foreground(out.Color("#fbbf24")),
			out.String(v.MessageKey).Foreground(out.Color("#a78bfa")),
			out.String(v.Reason).Faint(),
		)
	}
}

// PrintAccepted writes the success line for form.
func PrintAccepted(w io.Writer, form string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(fmt.Sprintf("✓ %s accepted", form)).Foreground(out.Color("#34d399")).Bold())
}

// FormsMarkdown documents every form as markdown tables.
func FormsMarkdown(all []forms.Form) string {
	var b strings.Builder
	b.WriteString("# Forms\n")
	for _, f := range all {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n", f.Name, f.Description)
		b.WriteString("| field | type | required | message keys |\n")
		b.WriteString("|---|---|---|---|\n")
		writeFields(&b, "", schema.Describe(f.Schema))
	}
	return b.String()
}

func writeFields(b *strings.Builder, prefix string, d schema.Description) {
	for _, f := range d.Fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		typ := f.Type
		if f.Elem != nil {
			typ = "[" + f.Elem.Type + "]"
		}
		required := "no"
		if !f.Optional {
			required = "yes"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", path, typ, required, strings.Join(messageKeys(f), ", "))

		if f.Type == "object" {
			writeFields(b, path, f)
		}
	}
}

func messageKeys(d schema.Description) []string {
	seen := map[string]bool{}
	if d.RequiredKey != "" {
		seen[d.RequiredKey] = true
	}
	for _, c := range d.Constraints {
		seen[c.MessageKey] = true
	}
	if d.Elem != nil {
		for _, c := range d.Elem.Constraints {
			seen[c.MessageKey] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
