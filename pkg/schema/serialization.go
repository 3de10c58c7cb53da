package schema

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes the schema as a map of field names to type strings.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	raw := make(map[string]string, len(s))
	for key, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("field %s: type is nil", key)
		}
		raw[key] = typ.Name()
	}

	return json.Marshal(raw)
}

// UnmarshalJSON deserializes the schema from a map of field names to type strings.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}

	if string(data) == "null" {
		*s = nil
		return nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		// Fallback: try map[string]any for cases where JSON decodes to mixed types
		var rawAny map[string]any
		if errAny := json.Unmarshal(data, &rawAny); errAny != nil {
			return err
		}
		raw = make(map[string]string, len(rawAny))
		for key, value := range rawAny {
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("field %s: expected string type, got %T", key, value)
			}
			raw[key] = str
		}
	}

	parsed, err := ParseTypeMap(raw)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// Description is a JSON-friendly view of a Type, used to publish form
// definitions to clients that localize message keys.
type Description struct {
	Name        string        `json:"name,omitempty"`
	Type        string        `json:"type"`
	Optional    bool          `json:"optional,omitempty"`
	RequiredKey string        `json:"required_key,omitempty"`
	Constraints []Constraint  `json:"constraints,omitempty"`
	Fields      []Description `json:"fields,omitempty"`
	Elem        *Description  `json:"elem,omitempty"`
	Strict      bool          `json:"strict,omitempty"`
}

// Describe walks t and returns its Description.
func Describe(t Type) Description {
	switch typ := t.(type) {
	case *ConstrainedType:
		d := Describe(typ.Base())
		d.Constraints = append(d.Constraints, typ.Constraints()...)
		return d
	case *ObjectType:
		d := Description{Type: typ.Name(), Strict: typ.IsStrict()}
		for _, f := range typ.Fields() {
			fd := Describe(f.Type)
			fd.Name = f.Name
			fd.Optional = f.Optional
			if !f.Optional {
				fd.RequiredKey = f.requiredKey()
			}
			d.Fields = append(d.Fields, fd)
		}
		return d
	case *SliceType:
		elem := Describe(typ.Elem())
		return Description{Type: typ.Name(), Elem: &elem}
	default:
		return Description{Type: t.Name()}
	}
}
