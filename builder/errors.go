package builder

import (
	"errors"
	"fmt"
)

//go:generate go tool stringer -type=ErrorKind -trimprefix=Kind -output=errorkind_string.go

// ErrorKind classifies builder errors.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota

	// Returned by AddProperty/AddProperties.
	KindInvalidKey
	KindInvalidArgument
	KindInvalidValue

	// Collected by Build.
	KindNotAnArray
	KindKeyNotDefined
	KindCircularReference
	KindNullInSubstitution
	KindNotScalar
	KindEmptySubstitutionKey
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrInvalidKey           = errors.New("invalid key")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidValue         = errors.New("invalid value")
	ErrNotAnArray           = errors.New("not an array")
	ErrKeyNotDefined        = errors.New("key not defined")
	ErrCircularReference    = errors.New("circular reference")
	ErrNullInSubstitution   = errors.New("null in substitution")
	ErrNotScalar            = errors.New("not scalar")
	ErrEmptySubstitutionKey = errors.New("empty substitution key")

	// ErrBuildFailed is returned by Build when any key could not be resolved.
	// The failures are available from Errors and Diagnostics.
	ErrBuildFailed = errors.New("build failed")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidKey:           ErrInvalidKey,
	KindInvalidArgument:      ErrInvalidArgument,
	KindInvalidValue:         ErrInvalidValue,
	KindNotAnArray:           ErrNotAnArray,
	KindKeyNotDefined:        ErrKeyNotDefined,
	KindCircularReference:    ErrCircularReference,
	KindNullInSubstitution:   ErrNullInSubstitution,
	KindNotScalar:            ErrNotScalar,
	KindEmptySubstitutionKey: ErrEmptySubstitutionKey,
}

// Error is the error type produced by the builder.
type Error struct {
	Kind ErrorKind
	// Key is the offending key, when there is one.
	Key string
	// Msg is the message without the cause.
	Msg string
	// Suggestions lists defined keys close to an undefined one.
	Suggestions []string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}

	return e.Msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

func newError(kind ErrorKind, key, format string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// kindOf returns the kind of err, or KindUnknown.
func kindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}

	return KindUnknown
}

// suggestionsOf returns the suggestions attached to err, if any.
func suggestionsOf(err error) []string {
	var be *Error
	if errors.As(err, &be) {
		return be.Suggestions
	}

	return nil
}
