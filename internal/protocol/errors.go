package protocol

import (
	"errors"
	"fmt"
)

// ErrCodeProtocol is the code carried by every ProtocolError.
const ErrCodeProtocol = "PROTOCOL"

// ErrNotReset is wrapped by a ProtocolError for events that arrive before
// the first reset.
var ErrNotReset = errors.New("reset must come first")

// ProtocolError reports a message that does not fit the wire grammar: an
// unknown verb, a wrong token count, an unknown card code, or an event out
// of sequence.
type ProtocolError struct {
	// Expected names what the reader was waiting for, e.g. "suggest reply".
	Expected string

	// Got is the offending message, NULs and surrounding space removed.
	Got string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: expected %s, got %q: %v", ErrCodeProtocol, e.Expected, e.Got, e.Err)
	}
	return fmt.Sprintf("%s: expected %s, got %q", ErrCodeProtocol, e.Expected, e.Got)
}

// Unwrap returns the underlying cause.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Code returns ErrCodeProtocol.
func (e *ProtocolError) Code() string {
	return ErrCodeProtocol
}

// IsProtocolError returns true if err is or wraps a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

func violation(expected, got string, format string, args ...any) *ProtocolError {
	var cause error
	if format != "" {
		cause = fmt.Errorf(format, args...)
	}
	return &ProtocolError{Expected: expected, Got: got, Err: cause}
}

func wrap(expected, got string, err error) *ProtocolError {
	return &ProtocolError{Expected: expected, Got: got, Err: err}
}
