package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/speedclue/internal/card"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeContradiction indicates the supplied events are inconsistent.
	ErrCodeContradiction ErrorCode = "CONTRADICTION"

	// ErrCodePassLimit indicates ProcessInferences did not reach a fixpoint
	// within the pass limit.
	ErrCodePassLimit ErrorCode = "PASS_LIMIT"
)

// ErrInvalidHolder is returned when a holder is outside [0, players].
var ErrInvalidHolder = errors.New("invalid holder")

// ContradictionError reports that a required edit would leave a card with no
// possible holder, or would push a holder past its quota.
//
// It is an invariant violation caused by an upstream bug or a lying peer,
// not a recoverable runtime condition.
type ContradictionError struct {
	// Rule names the rule that hit the contradiction.
	Rule string

	// Holder is the holder being edited.
	Holder Holder

	// Card is the card being edited, if the contradiction concerns one card.
	Card card.Card

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ContradictionError) Error() string {
	if e.Card.Valid() {
		return fmt.Sprintf("%s: %s: %s (holder=%d, card=%s)", ErrCodeContradiction, e.Rule, e.Message, e.Holder, e.Card)
	}
	return fmt.Sprintf("%s: %s: %s (holder=%d)", ErrCodeContradiction, e.Rule, e.Message, e.Holder)
}

// Code returns ErrCodeContradiction.
func (e *ContradictionError) Code() ErrorCode {
	return ErrCodeContradiction
}

// PassLimitError is returned when the fixpoint loop exceeds its pass limit.
type PassLimitError struct {
	Passes int
	Limit  int
}

// Error implements the error interface.
func (e *PassLimitError) Error() string {
	return fmt.Sprintf("%s: no fixpoint after %d passes (limit %d)", ErrCodePassLimit, e.Passes, e.Limit)
}

// Code returns ErrCodePassLimit.
func (e *PassLimitError) Code() ErrorCode {
	return ErrCodePassLimit
}

// IsContradiction returns true if err is or wraps a ContradictionError.
func IsContradiction(err error) bool {
	var ce *ContradictionError
	return errors.As(err, &ce)
}

// IsPassLimit returns true if err is or wraps a PassLimitError.
func IsPassLimit(err error) bool {
	var pe *PassLimitError
	return errors.As(err, &pe)
}

func contradiction(rule string, h Holder, c card.Card, format string, args ...any) *ContradictionError {
	return &ContradictionError{
		Rule:    rule,
		Holder:  h,
		Card:    c,
		Message: fmt.Sprintf(format, args...),
	}
}
