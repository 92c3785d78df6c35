// Package failure classifies the errors returned by the resolver, the source clients and the
// consolidator so callers can decide what to retry without inspecting messages.
package failure

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindResolution is an out-of-range or malformed congress selector.
	KindResolution Kind = "resolution"
	// KindConnection is a transport failure: timeout, unreachable host or non-2xx status.
	KindConnection Kind = "connection"
	// KindShape is a record that does not match the expected shape.
	KindShape Kind = "shape"
	// KindNotSupported is a well formed request for data a source never provides.
	KindNotSupported Kind = "not_supported"
	// KindValidation is a rejected search criteria set or missing credential.
	KindValidation Kind = "validation"
)

// Error carries the kind of a failure along with where it happened.
type Error struct {
	Kind   Kind
	Source string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Source != "" {
		prefix = e.Source + ": " + prefix
	}
	if e.Op != "" {
		prefix = prefix + " (" + e.Op + ")"
	}
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, failure.Connection) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Source == "" && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// sentinels for errors.Is
var (
	Resolution   = &Error{Kind: KindResolution}
	Connection   = &Error{Kind: KindConnection}
	Shape        = &Error{Kind: KindShape}
	NotSupported = &Error{Kind: KindNotSupported}
	Validation   = &Error{Kind: KindValidation}
)

func New(kind Kind, source, op string, err error) *Error {
	return &Error{Kind: kind, Source: source, Op: op, Err: err}
}

func Resolutionf(format string, args ...any) *Error {
	return &Error{Kind: KindResolution, Source: "resolver", Err: fmt.Errorf(format, args...)}
}

func Validationf(source, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Source: source, Err: fmt.Errorf(format, args...)}
}

func Shapef(source, format string, args ...any) *Error {
	return &Error{Kind: KindShape, Source: source, Err: fmt.Errorf(format, args...)}
}

func NotSupportedf(source, format string, args ...any) *Error {
	return &Error{Kind: KindNotSupported, Source: source, Err: fmt.Errorf(format, args...)}
}

// ConnectionErr wraps a transport level error raised while performing op.
func ConnectionErr(source, op string, err error) *Error {
	return &Error{Kind: KindConnection, Source: source, Op: op, Err: err}
}

// StatusErr turns an unexpected HTTP status into a connection error.
func StatusErr(source, op string, status int, url string) *Error {
	return &Error{
		Kind:   KindConnection,
		Source: source,
		Op:     op,
		Err:    fmt.Errorf("unexpected status %d from %s", status, url),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsRetryable reports whether err is a connection error. Nothing else is worth retrying.
func IsRetryable(err error) bool {
	return Is(err, KindConnection)
}
