package guard

import "reflect"

// Shape is the coarse JSON-like category of an untrusted value.
type Shape int

const (
	ShapeNull Shape = iota
	ShapeRecord
	ShapeArray
	ShapeString
	ShapeNumber
	ShapeBool
	ShapeOther
)

func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeRecord:
		return "record"
	case ShapeArray:
		return "array"
	case ShapeString:
		return "string"
	case ShapeNumber:
		return "number"
	case ShapeBool:
		return "bool"
	default:
		return "other"
	}
}

// Classify returns the Shape of v. Every guard in this package is defined in
// terms of it.
func Classify(v any) Shape {
	rv, ok := deref(v)
	if !ok {
		return ShapeNull
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return ShapeRecord
		}
		return ShapeOther
	case reflect.Struct:
		return ShapeRecord
	case reflect.Slice, reflect.Array:
		return ShapeArray
	case reflect.String:
		return ShapeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ShapeNumber
	case reflect.Bool:
		return ShapeBool
	default:
		return ShapeOther
	}
}
