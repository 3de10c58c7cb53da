package observability_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/aretw0/setlist/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	_, invalid := forms.DecodeRegistration(map[string]any{"username": "x"})
	_, malformed := decode.ParseJSON([]byte("{"))

	assert.Equal(t, observability.OutcomeOK, observability.Outcome(nil))
	assert.Equal(t, observability.OutcomeInvalid, observability.Outcome(invalid))
	assert.Equal(t, observability.OutcomeMalformed, observability.Outcome(malformed))
	assert.Equal(t, observability.OutcomeError, observability.Outcome(errors.New("boom")))
}

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	_, err := forms.DecodeRegistration(map[string]any{"username": "ab"})
	require.Error(t, err)

	m.Observe("registration", nil)
	m.Observe("registration", err)
	m.Observe("registration", err)

	expected := `
# HELP setlist_decode_total Total number of decode attempts by form and outcome
# TYPE setlist_decode_total counter
setlist_decode_total{form="registration",outcome="invalid"} 2
setlist_decode_total{form="registration",outcome="ok"} 1
# HELP setlist_decode_violations_total Total number of decode violations by form and message key
# TYPE setlist_decode_violations_total counter
setlist_decode_violations_total{form="registration",message_key="usernameTooShort"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() { m.Observe("song", errors.New("boom")) })
}
