// Package schema describes the shape of untrusted data and validates values
// against it.
//
// It defines a small type system with built-in types (string, int, float,
// bool, uuid, time, any), slices, custom validators, constraints that carry
// message keys, and ordered object types. Schemas are built once, usually at
// package initialization, and never mutated afterwards.
//
// Map schemas validate every field and aggregate the failures:
//
//	song := schema.Schema{
//	    "title": schema.String(),
//	    "tempo": schema.Int(),
//	    "tags":  schema.Slice(schema.String()),
//	}
//
//	if err := schema.Validate(song, data); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // one entry per failing field
//	    }
//	}
//
// Object types check fields in declaration order and stop at the first
// failure. Each constraint names the message key a client uses to localize
// the failure:
//
//	registration := schema.Object(
//	    schema.Req("username", schema.Constrained(schema.String(),
//	        schema.NonEmpty("usernameRequired"),
//	        schema.MinLength(3, "usernameTooShort"),
//	        schema.MaxLength(30, "usernameTooLong"),
//	        schema.Pattern(usernameRe, "usernameInvalid"),
//	    )),
//	)
//
// Map schemas can also be parsed from type strings:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "id":    "uuid",
//	    "title": "string",
//	    "tags":  "[string]",
//	})
//
// Validation reports *ValidationError values carrying the field path, the
// failed ConstraintKind and the message key. Decoding into Go structs lives in
// package decode, which is the only place that translates these errors.
package schema
