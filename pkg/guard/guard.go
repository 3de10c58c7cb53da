package guard

import (
	"maps"
	"reflect"
)

// IsRecord reports whether v is a non-null map with string keys or a struct.
// Slices and arrays are not records.
func IsRecord(v any) bool {
	return Classify(v) == ShapeRecord
}

// IsRecordOrArray reports whether v is a non-null record, slice or array.
// It is deliberately looser than IsRecord and is used where list payloads
// are as acceptable as objects.
func IsRecordOrArray(v any) bool {
	switch Classify(v) {
	case ShapeRecord, ShapeArray:
		return true
	default:
		return false
	}
}

// IsString reports whether the dynamic kind of v is string.
func IsString(v any) bool {
	if _, ok := v.(string); ok {
		return true
	}
	return Classify(v) == ShapeString
}

// IsStringArray reports whether v is a non-null slice or array whose elements
// are all strings. An empty slice is a string array.
func IsStringArray(v any) bool {
	switch s := v.(type) {
	case []string:
		return s != nil
	case []any:
		if s == nil {
			return false
		}
		for _, elem := range s {
			if !IsString(elem) {
				return false
			}
		}
		return true
	}

	rv, ok := deref(v)
	if !ok || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if !IsString(rv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether v is null, a zero-length string, slice, array or
// map, or a struct without exported fields. Zero numbers and false are not
// empty.
func IsEmpty(v any) bool {
	rv, ok := deref(v)
	if !ok {
		return true
	}

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AsRecord narrows v to a map with string keys. The returned map is a fresh
// copy, so callers may modify it freely. Structs are not converted.
func AsRecord(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		if m == nil {
			return nil, false
		}
		return maps.Clone(m), true
	}

	rv, ok := deref(v)
	if !ok || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// AsString narrows v to a string.
func AsString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv, ok := deref(v)
	if !ok || rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// AsStringArray narrows v to a fresh []string.
func AsStringArray(v any) ([]string, bool) {
	if !IsStringArray(v) {
		return nil, false
	}
	rv, _ := deref(v)
	out := make([]string, rv.Len())
	for i := range out {
		out[i], _ = AsString(rv.Index(i).Interface())
	}
	return out, true
}

// maxIndirections bounds deref so that self-referential pointers terminate.
const maxIndirections = 32

// deref follows pointers and interfaces down to a concrete value.
// ok is false when v is null. A chain longer than maxIndirections is
// returned as the pointer it stopped at, which every guard treats as other.
func deref(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for hops := 0; rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface); hops++ {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		if hops == maxIndirections {
			return rv, true
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return reflect.Value{}, false
	}
	if (rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice) && rv.IsNil() {
		return reflect.Value{}, false
	}
	return rv, true
}
