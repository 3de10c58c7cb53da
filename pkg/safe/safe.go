// Package safe provides bounds-checked access to slices.
//
// Out-of-range indices are routine at the input boundary (an optional path
// segment, a short row), so these helpers resolve them to a default or a no-op
// instead of panicking.
package safe

import (
	"slices"
	"unsafe"
)

// Get returns s[i] and true when 0 <= i < len(s). Otherwise it returns the
// zero value of E and false.
func Get[S ~[]E, E any](s S, i int) (E, bool) {
	if i < 0 || i >= len(s) {
		var zero E
		return zero, false
	}
	return s[i], true
}

// GetOr returns s[i] when i is in range and def otherwise.
func GetOr[S ~[]E, E any](s S, i int, def E) E {
	if v, ok := Get(s, i); ok {
		return v
	}
	return def
}

// Set returns a copy of s with position i replaced by v.
// When i is out of range s itself is returned, so callers can detect the
// no-op by identity. s is never modified.
func Set[S ~[]E, E any](s S, i int, v E) S {
	if i < 0 || i >= len(s) {
		return s
	}
	out := slices.Clone(s)
	out[i] = v
	return out
}

// Same reports whether a and b share the same backing array, length and
// capacity. It is the identity test for the no-op result of Set.
// Non-nil slices of capacity zero own no storage and may report the same
// even when they were allocated separately.
func Same[S ~[]E, E any](a, b S) bool {
	if len(a) != len(b) || cap(a) != cap(b) {
		return false
	}
	return unsafe.SliceData(a) == unsafe.SliceData(b)
}
