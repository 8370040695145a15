package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means a referenced resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the caller's session does not resolve to a user.
	ErrUnauthorized = errors.New("not authenticated")
)

const (
	msgTaken   = "has already been taken"
	msgBlank   = "can't be blank"
	msgInvalid = "is invalid"
)

func msgTooLong(max int) string {
	return fmt.Sprintf("is too long (maximum is %d characters)", max)
}

// ValidationError carries client-fixable problems keyed by field name.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError(field, message string) *ValidationError {
	e := &ValidationError{Fields: map[string][]string{}}
	e.Add(field, message)
	return e
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
