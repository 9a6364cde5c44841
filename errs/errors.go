// Package errs defines the error classes shared by the topic core, the
// agents and the configuration loader. Callers match them with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a value cannot be constructed from
	// the arguments it was given, e.g. an empty topic name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported is returned when a request names an operation or agent
	// type that is not known.
	ErrUnsupported = errors.New("unsupported operation")
)

// Invalid returns an error wrapping ErrInvalidArgument with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Unsupported returns an error wrapping ErrUnsupported with a formatted reason.
func Unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, fmt.Sprintf(format, args...))
}
