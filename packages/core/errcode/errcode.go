// Package errcode provides the structured error type shared by harkit packages.
//
// Every failure carries a stable machine-readable Code, a human-readable
// message, optional contextual fields (file path, request URL, ...) and the
// underlying cause. Packages declare sentinel values with New so callers can
// match with errors.Is:
//
//	if errors.Is(err, mustache.ErrInvalidRegex) { ... }
package errcode

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code is a stable, upper-snake identifier for a failure class.
type Code string

// Error is a coded error with structured context.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]any
	Err     error
}

// New returns a sentinel error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// With returns a copy of e carrying the given context fields and cause.
// Fields are given as alternating key/value pairs.
func (e *Error) With(cause error, kv ...any) *Error {
	out := &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     cause,
	}
	if len(kv) > 0 {
		out.Fields = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			key := fmt.Sprint(kv[i])
			out.Fields[key] = kv[i+1]
		}
	}
	return out
}

// Error renders "message (key=value ...): cause".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Fields[k])
		}
		b.WriteString(")")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Field returns a context field by key.
func (e *Error) Field(key string) (any, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
