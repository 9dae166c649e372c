// Package patch provides a tri-state JSON field wrapper for partial updates.
//
// A PATCH-style payload needs to distinguish three cases per field:
// the key was not sent at all, the key was sent as null ("clear this"),
// and the key was sent with a value. A plain pointer collapses the first
// two, which silently breaks clearing semantics.
package patch

import "encoding/json"

// Field holds one field of an update payload.
//
// The zero value is Absent. encoding/json only calls UnmarshalJSON for
// keys that are present in the payload, which is what makes the
// Absent/Null distinction work: a missing key leaves the zero value
// untouched.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Value returns a Field carrying v.
func Value[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Null returns a Field that was explicitly sent as null.
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// Absent returns the zero Field. Mostly useful in tests.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// Present reports whether the key was included in the payload,
// either as null or as a value.
func (f Field[T]) Present() bool { return f.present }

// IsNull reports whether the key was sent as an explicit null.
func (f Field[T]) IsNull() bool { return f.present && f.null }

// Get returns the decoded value and true when the field was sent with a
// non-null value.
func (f Field[T]) Get() (T, bool) {
	if !f.present || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// MustGet returns the value ignoring state; callers must check Get first.
func (f Field[T]) MustGet() T { return f.value }

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if string(data) == "null" {
		f.null = true
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
