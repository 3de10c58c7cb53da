// Package decode turns untrusted values into typed Go values.
//
// Every decode validates the input against a schema first and only then maps
// it onto the target type with mapstructure (using json struct tags). All
// failures come back as *Error, which carries the violations with their
// message keys and keeps the native error reachable through errors.As.
// Decoding is synchronous, performs no I/O and never mutates its input.
package decode

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/aretw0/setlist/pkg/guard"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// UnknownSync validates value against s and decodes it into T.
// A nil s skips validation.
func UnknownSync[T any](s schema.Type, value any) (T, error) {
	var out T
	if s != nil {
		if err := s.Validate(value); err != nil {
			return out, translate(err)
		}
	}
	if err := into(value, &out); err != nil {
		return out, translate(err)
	}
	return out, nil
}

// UnknownSyncOrPanic is UnknownSync for inputs that are known to be valid,
// such as package-level fixtures. It panics with the *Error on failure.
func UnknownSyncOrPanic[T any](s schema.Type, value any) T {
	out, err := UnknownSync[T](s, value)
	if err != nil {
		panic(err)
	}
	return out
}

// Record validates a record against a map schema, reporting every failing
// field, and decodes it into T.
func Record[T any](s schema.Schema, value any) (T, error) {
	var out T
	rec, ok := guard.AsRecord(value)
	if !ok {
		return out, translate(&schema.ValidationError{
			Reason:     fmt.Sprintf("expected object, got %s", guard.Classify(value)),
			Value:      value,
			Constraint: schema.KindType,
			MessageKey: schema.KeyInvalidType,
		})
	}
	if err := schema.Validate(s, rec); err != nil {
		return out, translate(err)
	}
	if err := into(rec, &out); err != nil {
		return out, translate(err)
	}
	return out, nil
}

// JSON parses data as JSON, also accepting comments and trailing commas,
// and decodes the result with UnknownSync.
func JSON[T any](s schema.Type, data []byte) (T, error) {
	raw, err := ParseJSON(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return UnknownSync[T](s, raw)
}

// YAML parses data as YAML and decodes the result with UnknownSync.
func YAML[T any](s schema.Type, data []byte) (T, error) {
	raw, err := ParseYAML(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return UnknownSync[T](s, raw)
}

// ParseJSON parses JSON or JSONC into an untyped value.
func ParseJSON(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, malformed(err)
	}
	return raw, nil
}

// ParseYAML parses YAML into an untyped value.
func ParseYAML(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, malformed(err)
	}
	return raw, nil
}

func into(value any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
		// Keys must match exactly, as they did during validation.
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToUUIDHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(value)
}

var uuidType = reflect.TypeOf(uuid.UUID{})

func stringToUUIDHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != uuidType {
		return data, nil
	}
	return uuid.Parse(reflect.ValueOf(data).String())
}
