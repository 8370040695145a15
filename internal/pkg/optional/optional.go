// Package optional tells apart a JSON field that was omitted from one that
// was sent, including one sent as null.
package optional

import (
	"bytes"
	"encoding/json"
)

type Field[T any] struct {
	Set   bool
	Value *T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Or returns the value, or fallback when absent or null.
func (f Field[T]) Or(fallback T) T {
	if f.Value == nil {
		return fallback
	}
	return *f.Value
}
