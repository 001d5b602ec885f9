package referee

import (
	"errors"
	"fmt"
	"os"
)

// ViolationKind names a contest rule a seat broke.
type ViolationKind string

const (
	// ViolationProtocol: malformed reply, dropped connection or agent error.
	ViolationProtocol ViolationKind = "PROTOCOL"

	// ViolationTimeout: no reply within the per-message deadline.
	ViolationTimeout ViolationKind = "TIMEOUT"

	// ViolationDuplicateSuggestion: the seat repeated one of its suggestions.
	ViolationDuplicateSuggestion ViolationKind = "DUPLICATE_SUGGESTION"

	// ViolationInvalidDisprove: the shown card is not in the seat's hand or
	// not in the suggestion, or the seat refused although it could disprove.
	ViolationInvalidDisprove ViolationKind = "INVALID_DISPROVE"

	// ViolationSuicidalAccusation: the accusation names a card the seat has
	// seen.
	ViolationSuicidalAccusation ViolationKind = "SUICIDAL_ACCUSATION"

	// ViolationMissedAccusation: the seat passed after an undisproved
	// suggestion that held none of its seen cards.
	ViolationMissedAccusation ViolationKind = "MISSED_ACCUSATION"
)

// Violation disqualifies a seat.
type Violation struct {
	Kind   ViolationKind
	Seat   int
	Player string
	Detail string
	Err    error
}

// Error implements the error interface.
func (v *Violation) Error() string {
	msg := fmt.Sprintf("%s: seat %d (%s)", v.Kind, v.Seat, v.Player)
	if v.Detail != "" {
		msg += ": " + v.Detail
	}
	if v.Err != nil {
		msg += ": " + v.Err.Error()
	}
	return msg
}

// Unwrap returns the transport or agent error behind the violation.
func (v *Violation) Unwrap() error {
	return v.Err
}

// IsViolation returns true if err is or wraps a Violation.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}

// classify maps a failed exchange to a violation kind.
func classify(err error) ViolationKind {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ViolationTimeout
	}
	return ViolationProtocol
}
