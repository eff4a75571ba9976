package extract

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNoExtractor is returned at registration when a handler declares a
	// parameter type that has neither a registered extractor nor an
	// Extractable implementation.
	ErrNoExtractor = errors.New("no extractor for type")

	// ErrInvalidHandler is returned at registration when the value passed
	// is not a usable handler function.
	ErrInvalidHandler = errors.New("invalid handler")

	// ErrInvalidJSON is returned when the payload is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNoMatch is the skip reason for a unit whose guard rejected the request.
	ErrNoMatch = errors.New("request did not match guard")

	// ErrPanic matches any *PanicError.
	ErrPanic = errors.New("handler panicked")
)

// ExtractError reports the first parameter whose extraction failed.
// Position is zero-based; positions after it were not evaluated.
type ExtractError struct {
	Position int
	Type     reflect.Type
	Err      error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract param %d (%v): %v", e.Position, e.Type, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// ParseError is returned by the built-in scalar extractors when the payload
// is not a valid representation of the target type.
type ParseError struct {
	Type  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q as %s: %v", e.Input, e.Type, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PanicError carries a recovered handler panic and the goroutine stack at
// the point of recovery.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Is lets errors.Is(err, ErrPanic) match.
func (e *PanicError) Is(target error) bool { return target == ErrPanic }
