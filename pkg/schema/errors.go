package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Default message keys for failures that are not tied to a declared constraint.
const (
	KeyRequired     = "fieldRequired"
	KeyInvalidType  = "invalidType"
	KeyUnknownField = "unknownField"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key        string         // Field path, e.g. "user_metadata.full_name" or "tags[2]"
	Reason     string         // Human-readable reason for failure
	Value      any            // The value that failed validation
	Constraint ConstraintKind // Which check failed
	MessageKey string         // Stable identifier used to localize the failure
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return e.Reason
	}
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns the individual failures carried by err.
// An AggregateError yields its members, a lone ValidationError yields
// itself, and anything else yields nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []error{ve}
	}
	return nil
}

// nest attributes err to the child element key of a container, keeping any
// path already recorded by a nested object or slice.
func nest(key string, err error, value any) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		out := *ve
		out.Key = joinPath(key, ve.Key)
		return &out
	}
	return &ValidationError{
		Key:        key,
		Reason:     err.Error(),
		Value:      value,
		Constraint: KindType,
		MessageKey: KeyInvalidType,
	}
}

func joinPath(parent, child string) string {
	switch {
	case child == "":
		return parent
	case parent == "":
		return child
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}
