package engine

import (
	"fmt"

	"github.com/roach88/speedclue/internal/card"
)

// ConstraintKind distinguishes the two pending-fact shapes.
type ConstraintKind uint8

const (
	// NotAllThree means the holder does not hold every card of the triplet.
	NotAllThree ConstraintKind = iota + 1
	// AtLeastOneOf means the holder holds one or more cards of the triplet.
	AtLeastOneOf
)

func (k ConstraintKind) String() string {
	switch k {
	case NotAllThree:
		return "NotAllThree"
	case AtLeastOneOf:
		return "AtLeastOneOf"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", uint8(k))
	}
}

// Constraint is a pending fact about one holder and one triplet.
type Constraint struct {
	Kind    ConstraintKind
	Holder  Holder
	Triplet card.Triplet
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s(%d, %s)", c.Kind, c.Holder, c.Triplet)
}

// resolve applies the constraint's rule to m.
//
// retired is true when the constraint no longer carries information, either
// because it produced its matrix edit or because it is already satisfied.
// changed is true when the matrix was edited.
func (c Constraint) resolve(m *Matrix) (retired, changed bool) {
	switch c.Kind {
	case NotAllThree:
		return c.resolveNotAllThree(m)
	case AtLeastOneOf:
		return c.resolveAtLeastOneOf(m)
	default:
		panic(fmt.Sprintf("engine: unknown constraint kind %d", c.Kind))
	}
}

// Two of three confirmed held means the third is not.
func (c Constraint) resolveNotAllThree(m *Matrix) (retired, changed bool) {
	held := 0
	var open card.Card
	for _, x := range c.Triplet.Cards() {
		switch {
		case !m.MightHold(c.Holder, x):
			return true, false
		case m.IsHeldBy(c.Holder, x):
			held++
		default:
			open = x
		}
	}
	switch held {
	case 3:
		panic(contradiction("notAllThree", c.Holder, card.Card{}, "holder holds all of %s", c.Triplet))
	case 2:
		return true, m.MarkExcluded(c.Holder, open)
	default:
		return false, false
	}
}

// Two of three excluded means the third is held.
func (c Constraint) resolveAtLeastOneOf(m *Matrix) (retired, changed bool) {
	possible := 0
	var last card.Card
	for _, x := range c.Triplet.Cards() {
		if m.IsHeldBy(c.Holder, x) {
			return true, false
		}
		if m.MightHold(c.Holder, x) {
			possible++
			last = x
		}
	}
	switch possible {
	case 0:
		panic(contradiction("atLeastOneOf", c.Holder, card.Card{}, "holder can hold none of %s", c.Triplet))
	case 1:
		return true, m.MarkHeld(c.Holder, last)
	default:
		return false, false
	}
}

// constraintStore is the FIFO of still-pending constraints.
//
// Resolved constraints are removed rather than flagged, so the store only
// ever holds open facts. Arrival order is preserved for deterministic
// resolution.
type constraintStore struct {
	pending []Constraint
}

// add appends c unless an identical constraint is already pending.
// Returns false for a duplicate.
func (s *constraintStore) add(c Constraint) bool {
	for _, p := range s.pending {
		if p == c {
			return false
		}
	}
	s.pending = append(s.pending, c)
	return true
}

// resolveAll attempts every pending constraint once, in order, and drops
// the ones that retire.
func (s *constraintStore) resolveAll(m *Matrix) (retired int, changed bool) {
	kept := s.pending[:0]
	for _, c := range s.pending {
		done, edited := c.resolve(m)
		if edited {
			changed = true
		}
		if done {
			retired++
			continue
		}
		kept = append(kept, c)
	}
	// Clear the tail so dropped constraints are not retained.
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = Constraint{}
	}
	s.pending = kept
	return retired, changed
}

// Len returns the number of pending constraints.
func (s *constraintStore) Len() int {
	return len(s.pending)
}

// list returns a copy of the pending constraints in arrival order.
func (s *constraintStore) list() []Constraint {
	return append([]Constraint(nil), s.pending...)
}
