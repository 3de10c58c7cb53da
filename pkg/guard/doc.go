/*
Package guard answers "does this untrusted value have shape X?" without panicking.

Values arrive here from JSON bodies, cookies, cache entries and data store rows,
usually typed as any. Every guard is pure and total: it never mutates its input,
never retains it, and returns false rather than failing.

# Null model

Untyped nil, nil pointers, nil interfaces, nil maps and nil slices are all
treated as null, the same way encoding/json would encode them.

# Records

Two record guards exist on purpose and are not interchangeable:

  - IsRecord: a non-null map with string keys or struct. Slices are rejected.
  - IsRecordOrArray: the looser check, which also accepts non-null slices and arrays.

Go has no flow-sensitive narrowing, so the As* helpers return the narrowed value
together with an ok flag, and Classify returns an explicit Shape variant.
*/
package guard
