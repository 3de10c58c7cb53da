/*
Package setlist is the untrusted-input boundary of a song library: sign-up
forms, OAuth user records, songs, playlists and events all cross it before
the rest of the application sees them.

# Concept

Anything that arrives from outside (a request body, a provider response, a
cache entry, a config file) is treated as an unknown value. It is first
classified with the guards in pkg/guard, then validated against a schema
from pkg/schema and finally mapped onto a Go struct by pkg/decode. Failures
come back as one error type carrying violations with message keys, which
clients translate into their own language.

# Packages

  - pkg/guard: null-safe type guards over arbitrary values.
  - pkg/safe: bounds-checked slice access.
  - pkg/schema: types, constraints with message keys, ordered objects.
  - pkg/decode: schema-validated decoding from values, JSON(C) and YAML.
  - pkg/forms: the domain schemas and the form registry.
  - pkg/lang: response language detection.
  - pkg/tokencache: access token cache with memory and Redis backends.
  - pkg/observability: Prometheus counters for decode outcomes.

# Usage

	reg, err := forms.DecodeRegistration(map[string]any{"username": "coltrane"})
	if err != nil {
		if de, ok := decode.AsError(err); ok {
			for _, v := range de.Violations {
				fmt.Println(v.Field, v.MessageKey)
			}
		}
		return
	}
	fmt.Println(reg.Username)

The cmd/setlist binary exposes the same registry on the command line, over
HTTP and as MCP tools.
*/
package setlist
