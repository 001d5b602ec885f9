package engine

import (
	"fmt"

	"github.com/roach88/speedclue/internal/card"
)

// Quota states that Holder holds exactly Count of Cards.
//
// Quotas are fixed for the whole game. The engine installs one per category
// for the envelope (Count 1) and one per seat over the whole deck (Count is
// the seat's dealt hand size).
type Quota struct {
	Holder Holder
	Cards  []card.Card
	Count  int
}

func (q Quota) String() string {
	return fmt.Sprintf("Quota(%d holds %d of %d cards)", q.Holder, q.Count, len(q.Cards))
}

// apply tightens the matrix with the quota and reports whether it changed.
//
// Cornering: the cards nobody but Holder can hold are Holder's. When there
// are already Count of them, Holder holds nothing else on the list.
//
// Forcing: when Holder might hold exactly Count cards of the list, it holds
// every one of them.
func (q Quota) apply(m *Matrix) bool {
	changed := false

	cornered := 0
	for _, c := range q.Cards {
		if m.onlyCandidate(q.Holder, c) {
			cornered++
		}
	}
	if cornered > q.Count {
		panic(contradiction("quota", q.Holder, card.Card{}, "holds %d cards, quota is %d", cornered, q.Count))
	}
	if cornered == q.Count {
		for _, c := range q.Cards {
			if !m.onlyCandidate(q.Holder, c) && m.MarkExcluded(q.Holder, c) {
				changed = true
			}
		}
	}

	var possible []card.Card
	for _, c := range q.Cards {
		if m.MightHold(q.Holder, c) {
			possible = append(possible, c)
		}
	}
	if len(possible) < q.Count {
		panic(contradiction("quota", q.Holder, card.Card{}, "might hold %d cards, quota is %d", len(possible), q.Count))
	}
	if len(possible) == q.Count {
		for _, c := range possible {
			if m.MarkHeld(q.Holder, c) {
				changed = true
			}
		}
	}

	return changed
}
