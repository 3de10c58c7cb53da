package observability

import (
	"errors"

	"github.com/aretw0/setlist/pkg/decode"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Metrics holds the decode collectors. A nil *Metrics records nothing.
type Metrics struct {
	decodes    *prometheus.CounterVec
	violations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setlist_decode_total",
				Help: "Total number of decode attempts by form and outcome",
			},
			[]string{"form", "outcome"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setlist_decode_violations_total",
				Help: "Total number of decode violations by form and message key",
			},
			[]string{"form", "message_key"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.decodes, m.violations)
	}
	return m
}

// Observe records the result of decoding form.
func (m *Metrics) Observe(form string, err error) {
	if m == nil {
		return
	}

	m.decodes.WithLabelValues(form, Outcome(err)).Inc()

	if de, ok := decode.AsError(err); ok {
		for _, v := range de.Violations {
			m.violations.WithLabelValues(form, v.MessageKey).Inc()
		}
	}
}

// Outcome maps a decode error to its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, decode.ErrMalformed):
		return OutcomeMalformed
	case errors.Is(err, decode.ErrInvalid):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
