package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/speedclue/internal/card"
)

// CardState is one row of a Snapshot.
type CardState struct {
	Card     card.Card
	Feasible []Holder
}

// Snapshot is a copy of the engine's knowledge at one point in time.
type Snapshot struct {
	Players int
	Cards   []CardState
	Pending []Constraint
	Murder  *card.Triplet
}

// Snapshot captures the matrix, the pending constraints and the candidate
// murder set.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Players: e.Players(),
		Cards:   make([]CardState, 0, card.Count),
		Pending: e.store.list(),
	}
	for _, c := range card.All() {
		s.Cards = append(s.Cards, CardState{Card: c, Feasible: e.matrix.Feasible(c)})
	}
	if t, ok := e.CandidateMurderSet(); ok {
		s.Murder = &t
	}
	return s
}

// Format renders the snapshot as stable text, one card per line.
//
//	players: 4
//	MrGreen: P0
//	ColMustard: P1 P2 P3 E
//	...
//	pending:
//	  AtLeastOneOf P2 {ProfPlum, Knife, Lounge}
//	murder: none
func (s Snapshot) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "players: %d\n", s.Players)
	for _, cs := range s.Cards {
		names := make([]string, len(cs.Feasible))
		for i, h := range cs.Feasible {
			names[i] = holderName(s.Players, h)
		}
		fmt.Fprintf(&b, "%s: %s\n", cs.Card.Name(), strings.Join(names, " "))
	}
	b.WriteString("pending:\n")
	for _, c := range s.Pending {
		fmt.Fprintf(&b, "  %s %s %s\n", c.Kind, holderName(s.Players, c.Holder), c.Triplet)
	}
	if s.Murder != nil {
		fmt.Fprintf(&b, "murder: %s\n", *s.Murder)
	} else {
		b.WriteString("murder: none\n")
	}
	return b.String()
}
