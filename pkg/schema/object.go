package schema

import (
	"fmt"
	"slices"
	"sort"

	"github.com/aretw0/setlist/pkg/guard"
)

// Field is a named member of an ObjectType.
type Field struct {
	Name        string
	Type        Type
	Optional    bool
	RequiredKey string
}

// Req declares a field that must be present and non-null.
func Req(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Opt declares a field that may be absent or null.
func Opt(name string, t Type) Field {
	return Field{Name: name, Type: t, Optional: true}
}

// WithRequiredKey sets the message key reported when the field is missing.
func (f Field) WithRequiredKey(key string) Field {
	f.RequiredKey = key
	return f
}

func (f Field) requiredKey() string {
	if f.RequiredKey != "" {
		return f.RequiredKey
	}
	return KeyRequired
}

// ObjectType validates records field by field in declaration order.
// Unlike Validate over a Schema map, it stops at the first failing field.
type ObjectType struct {
	fields []Field
	strict bool
}

// Object creates a record type from fields.
func Object(fields ...Field) *ObjectType {
	return &ObjectType{fields: slices.Clone(fields)}
}

// Strict returns a copy of o that rejects keys it does not declare.
func (o *ObjectType) Strict() *ObjectType {
	return &ObjectType{fields: o.fields, strict: true}
}

// Fields returns a copy of the declared fields.
func (o *ObjectType) Fields() []Field {
	return slices.Clone(o.fields)
}

// IsStrict reports whether undeclared keys are rejected.
func (o *ObjectType) IsStrict() bool { return o.strict }

func (o *ObjectType) Name() string { return "object" }

func (o *ObjectType) Validate(value any) error {
	rec, ok := guard.AsRecord(value)
	if !ok {
		return &ValidationError{
			Reason:     fmt.Sprintf("expected object, got %s", guard.Classify(value)),
			Value:      value,
			Constraint: KindType,
			MessageKey: KeyInvalidType,
		}
	}

	for _, f := range o.fields {
		v, exists := rec[f.Name]
		if !exists || v == nil {
			if f.Optional {
				continue
			}
			return &ValidationError{
				Key:        f.Name,
				Reason:     "required",
				Constraint: KindRequired,
				MessageKey: f.requiredKey(),
			}
		}
		if err := f.Type.Validate(v); err != nil {
			return nest(f.Name, err, v)
		}
	}

	if o.strict {
		var unknown []string
		for key := range rec {
			if !o.declares(key) {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return &ValidationError{
				Key:        unknown[0],
				Reason:     "unknown field",
				Value:      rec[unknown[0]],
				Constraint: KindUnknown,
				MessageKey: KeyUnknownField,
			}
		}
	}

	return nil
}

func (o *ObjectType) declares(key string) bool {
	for _, f := range o.fields {
		if f.Name == key {
			return true
		}
	}
	return false
}
