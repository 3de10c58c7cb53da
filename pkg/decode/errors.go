package decode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/setlist/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

var (
	// ErrInvalid marks input that parsed but failed the schema or could not
	// be mapped onto the target type.
	ErrInvalid = errors.New("invalid input")
	// ErrMalformed marks input that could not be parsed at all.
	ErrMalformed = errors.New("malformed input")
)

// KeyMalformed is the message key reported for unparseable input.
const KeyMalformed = "malformedInput"

// Violation is one reason a value was rejected.
type Violation struct {
	Field      string                `json:"field"`
	Constraint schema.ConstraintKind `json:"constraint"`
	MessageKey string                `json:"message_key"`
	Reason     string                `json:"reason"`
}

// Error is the only error type decode returns. The native failure is kept
// and reachable through errors.As.
type Error struct {
	Violations []Violation

	kind   error
	native error
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("decode: %v", e.kind)
	}
	v := e.Violations[0]
	var b strings.Builder
	b.WriteString("decode: ")
	if v.Field != "" {
		fmt.Fprintf(&b, "field %q: ", v.Field)
	}
	fmt.Fprintf(&b, "%s (%s)", v.Reason, v.MessageKey)
	if n := len(e.Violations) - 1; n > 0 {
		fmt.Fprintf(&b, " (and %d more)", n)
	}
	return b.String()
}

// Unwrap exposes both the sentinel kind and the native error.
func (e *Error) Unwrap() []error {
	if e.native == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.native}
}

// First returns the violation that determines the user-visible message.
func (e *Error) First() (Violation, bool) {
	if len(e.Violations) == 0 {
		return Violation{}, false
	}
	return e.Violations[0], true
}

// MessageKeys lists the message keys of all violations in order.
func (e *Error) MessageKeys() []string {
	keys := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		keys[i] = v.MessageKey
	}
	return keys
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// translate converts a native failure into an *Error.
// This is the single place that knows about schema and mapstructure errors.
func translate(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}

	out := &Error{kind: ErrInvalid, native: err}

	if errs := schema.ValidationErrors(err); len(errs) > 0 {
		for _, e := range errs {
			var ve *schema.ValidationError
			if errors.As(e, &ve) {
				out.Violations = append(out.Violations, fromValidation(ve))
				continue
			}
			out.Violations = append(out.Violations, typeViolation("", e.Error()))
		}
		return out
	}

	var me *mapstructure.Error
	if errors.As(err, &me) {
		for _, msg := range me.Errors {
			out.Violations = append(out.Violations, typeViolation(fieldFromMapstructure(msg), msg))
		}
		return out
	}

	out.Violations = []Violation{typeViolation("", err.Error())}
	return out
}

func malformed(err error) *Error {
	return &Error{
		kind:   ErrMalformed,
		native: err,
		Violations: []Violation{{
			Constraint: "syntax",
			MessageKey: KeyMalformed,
			Reason:     err.Error(),
		}},
	}
}

func fromValidation(ve *schema.ValidationError) Violation {
	key := ve.MessageKey
	if key == "" {
		key = schema.KeyInvalidType
	}
	kind := ve.Constraint
	if kind == "" {
		kind = schema.KindType
	}
	return Violation{
		Field:      ve.Key,
		Constraint: kind,
		MessageKey: key,
		Reason:     ve.Reason,
	}
}

func typeViolation(field, reason string) Violation {
	return Violation{
		Field:      field,
		Constraint: schema.KindType,
		MessageKey: schema.KeyInvalidType,
		Reason:     reason,
	}
}

// fieldFromMapstructure pulls the field name out of messages such as
// "'tempo' expected type 'int', got unconvertible type 'string'".
func fieldFromMapstructure(msg string) string {
	if !strings.HasPrefix(msg, "'") {
		return ""
	}
	end := strings.Index(msg[1:], "'")
	if end < 0 {
		return ""
	}
	return msg[1 : end+1]
}
