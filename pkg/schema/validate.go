package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"title": String(), "tempo": Int(), "tags": Slice(String())}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Returns an error with all validation failures found, ordered by field name.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	keys := make([]string, 0, len(schema))
	for fieldName := range schema {
		keys = append(keys, fieldName)
	}
	sort.Strings(keys)

	var errs []error
	for _, fieldName := range keys {
		if err := validateField(schema[fieldName], fieldName, data); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// ValidateFields validates only specific fields from data against the schema.
// Missing fields are treated as an error.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error

	for _, fieldName := range fields {
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:        fieldName,
				Reason:     "not defined in schema",
				Constraint: KindUnknown,
				MessageKey: KeyUnknownField,
			})
			continue
		}

		if err := validateField(fieldType, fieldName, data); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

func validateField(fieldType Type, fieldName string, data map[string]any) error {
	value, exists := data[fieldName]
	if !exists {
		return &ValidationError{
			Key:        fieldName,
			Reason:     "required",
			Constraint: KindRequired,
			MessageKey: KeyRequired,
		}
	}

	if err := fieldType.Validate(value); err != nil {
		return nest(fieldName, err, value)
	}
	return nil
}
