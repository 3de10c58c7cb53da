package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/setlist/pkg/guard"
)

// ConstraintKind names the check that produced a failure.
type ConstraintKind string

const (
	KindType      ConstraintKind = "type"
	KindRequired  ConstraintKind = "required"
	KindUnknown   ConstraintKind = "unknown"
	KindNonEmpty  ConstraintKind = "non_empty"
	KindMinLength ConstraintKind = "min_length"
	KindMaxLength ConstraintKind = "max_length"
	KindPattern   ConstraintKind = "pattern"
	KindOneOf     ConstraintKind = "one_of"
	KindRange     ConstraintKind = "range"
	KindCustom    ConstraintKind = "custom"
)

// Constraint is a single refinement applied after the base type has been
// accepted. It carries the message key reported when it fails.
type Constraint struct {
	Kind       ConstraintKind `json:"kind"`
	MessageKey string         `json:"message_key"`
	Detail     string         `json:"detail,omitempty"`

	check func(any) error
}

// Check applies the constraint to value. The returned error is the bare
// reason; ConstrainedType turns it into a ValidationError.
func (c Constraint) Check(value any) error {
	if c.check == nil {
		return nil
	}
	return c.check(value)
}

// NonEmpty rejects null, "", and empty slices or maps.
func NonEmpty(key string) Constraint {
	return Constraint{
		Kind:       KindNonEmpty,
		MessageKey: key,
		check: func(v any) error {
			if guard.IsEmpty(v) {
				return fmt.Errorf("must not be empty")
			}
			return nil
		},
	}
}

// MinLength requires at least n characters (runes) or n elements.
func MinLength(n int, key string) Constraint {
	return Constraint{
		Kind:       KindMinLength,
		MessageKey: key,
		Detail:     fmt.Sprintf("%d", n),
		check: func(v any) error {
			l, err := length(v)
			if err != nil {
				return err
			}
			if l < n {
				return fmt.Errorf("length %d is below minimum %d", l, n)
			}
			return nil
		},
	}
}

// MaxLength allows at most n characters (runes) or n elements.
func MaxLength(n int, key string) Constraint {
	return Constraint{
		Kind:       KindMaxLength,
		MessageKey: key,
		Detail:     fmt.Sprintf("%d", n),
		check: func(v any) error {
			l, err := length(v)
			if err != nil {
				return err
			}
			if l > n {
				return fmt.Errorf("length %d exceeds maximum %d", l, n)
			}
			return nil
		},
	}
}

// Pattern requires a string matching re.
func Pattern(re *regexp.Regexp, key string) Constraint {
	return Constraint{
		Kind:       KindPattern,
		MessageKey: key,
		Detail:     re.String(),
		check: func(v any) error {
			s, ok := guard.AsString(v)
			if !ok {
				return fmt.Errorf("pattern requires a string, got %T", v)
			}
			if !re.MatchString(s) {
				return fmt.Errorf("does not match %s", re.String())
			}
			return nil
		},
	}
}

// OneOf requires a string equal to one of values.
func OneOf(key string, values ...string) Constraint {
	allowed := slices.Clone(values)
	return Constraint{
		Kind:       KindOneOf,
		MessageKey: key,
		Detail:     strings.Join(allowed, "|"),
		check: func(v any) error {
			s, ok := guard.AsString(v)
			if !ok {
				return fmt.Errorf("one_of requires a string, got %T", v)
			}
			if !slices.Contains(allowed, s) {
				return fmt.Errorf("%q is not one of %s", s, strings.Join(allowed, ", "))
			}
			return nil
		},
	}
}

// Range requires a number within [lo, hi].
func Range(lo, hi float64, key string) Constraint {
	return Constraint{
		Kind:       KindRange,
		MessageKey: key,
		Detail:     fmt.Sprintf("%g..%g", lo, hi),
		check: func(v any) error {
			f, ok := number(v)
			if !ok {
				return fmt.Errorf("range requires a number, got %T", v)
			}
			if f < lo || f > hi {
				return fmt.Errorf("%g is outside %g..%g", f, lo, hi)
			}
			return nil
		},
	}
}

// Refine wraps an arbitrary predicate as a constraint.
func Refine(key string, fn func(any) error) Constraint {
	return Constraint{
		Kind:       KindCustom,
		MessageKey: key,
		check:      fn,
	}
}

// ConstrainedType checks a base type and then its constraints in order.
type ConstrainedType struct {
	base        Type
	constraints []Constraint
}

// Constrained attaches constraints to base. Constraints run in the order
// given and evaluation stops at the first failure.
func Constrained(base Type, constraints ...Constraint) *ConstrainedType {
	return &ConstrainedType{base: base, constraints: slices.Clone(constraints)}
}

func (t *ConstrainedType) Name() string { return t.base.Name() }

// Base returns the unconstrained type.
func (t *ConstrainedType) Base() Type { return t.base }

// Constraints returns a copy of the attached constraints.
func (t *ConstrainedType) Constraints() []Constraint {
	return slices.Clone(t.constraints)
}

func (t *ConstrainedType) Validate(value any) error {
	if err := t.base.Validate(value); err != nil {
		return nest("", err, value)
	}
	for _, c := range t.constraints {
		if err := c.Check(value); err != nil {
			return &ValidationError{
				Reason:     err.Error(),
				Value:      value,
				Constraint: c.Kind,
				MessageKey: c.MessageKey,
			}
		}
	}
	return nil
}

func length(v any) (int, error) {
	if s, ok := guard.AsString(v); ok {
		return utf8.RuneCountInString(s), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("value of type %T has no length", v)
	}
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
