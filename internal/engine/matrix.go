package engine

import (
	"fmt"
	"math/bits"

	"github.com/roach88/speedclue/internal/card"
)

// Holder is a seat index 0..N-1, or N for the envelope.
type Holder int

// holderSet is a bitset of holders. Seven holders at most (six seats and
// the envelope) fit in a byte.
type holderSet uint8

func (h Holder) bit() holderSet {
	return holderSet(1) << uint(h)
}

func (s holderSet) has(h Holder) bool {
	return s&h.bit() != 0
}

func (s holderSet) size() int {
	return bits.OnesCount8(uint8(s))
}

// only returns the single member of s. Call only when size() == 1.
func (s holderSet) only() Holder {
	return Holder(bits.TrailingZeros8(uint8(s)))
}

// maxHolders bounds players+1 by the width of holderSet.
const maxHolders = 8

// Matrix is the possession table: for each card, the holders that might
// still hold it.
//
// INVARIANTS:
//   - A card's feasible set never grows, except that MarkHeld replaces it
//     with the singleton {holder}.
//   - A feasible set is never empty. An edit that would empty one panics
//     with *ContradictionError.
type Matrix struct {
	players  int
	feasible [card.Count]holderSet
}

// NewMatrix creates a matrix where every holder might hold every card.
func NewMatrix(players int) *Matrix {
	if players < 1 || players+1 > maxHolders {
		panic(fmt.Sprintf("engine: unsupported player count %d", players))
	}
	m := &Matrix{players: players}
	all := holderSet(1)<<uint(players+1) - 1
	for i := range m.feasible {
		m.feasible[i] = all
	}
	return m
}

// Players returns the number of seats.
func (m *Matrix) Players() int {
	return m.players
}

// Envelope returns the holder slot used for the envelope.
func (m *Matrix) Envelope() Holder {
	return Holder(m.players)
}

// Holders returns every holder, seats first and the envelope last.
func (m *Matrix) Holders() []Holder {
	hs := make([]Holder, m.players+1)
	for i := range hs {
		hs[i] = Holder(i)
	}
	return hs
}

// Valid reports whether h is a seat or the envelope of this matrix.
func (m *Matrix) Valid(h Holder) bool {
	return h >= 0 && int(h) <= m.players
}

// MarkHeld assigns c to h outright. It returns whether the matrix changed.
// Calling it again with the same holder is a no-op.
//
// Panics with *ContradictionError if h was already excluded for c.
func (m *Matrix) MarkHeld(h Holder, c card.Card) bool {
	i := c.Index()
	if !m.feasible[i].has(h) {
		panic(contradiction("markHeld", h, c, "holder already excluded"))
	}
	if m.feasible[i] == h.bit() {
		return false
	}
	m.feasible[i] = h.bit()
	return true
}

// MarkExcluded removes h from c's feasible set. It returns whether the
// matrix changed; removing an absent holder is a no-op.
//
// Panics with *ContradictionError if h was the last possible holder.
func (m *Matrix) MarkExcluded(h Holder, c card.Card) bool {
	i := c.Index()
	if !m.feasible[i].has(h) {
		return false
	}
	if m.feasible[i] == h.bit() {
		panic(contradiction("markExcluded", h, c, "would leave the card without a holder"))
	}
	m.feasible[i] &^= h.bit()
	return true
}

// IsHeldBy reports whether c is known to be held by h.
func (m *Matrix) IsHeldBy(h Holder, c card.Card) bool {
	return m.feasible[c.Index()] == h.bit()
}

// MightHold reports whether h is still in c's feasible set.
func (m *Matrix) MightHold(h Holder, c card.Card) bool {
	return m.feasible[c.Index()].has(h)
}

// IsFullyDetermined reports whether exactly one holder remains for c.
func (m *Matrix) IsFullyDetermined(c card.Card) bool {
	return m.feasible[c.Index()].size() == 1
}

// DeterminedHolder returns the unique holder of c, if there is one.
func (m *Matrix) DeterminedHolder(c card.Card) (Holder, bool) {
	s := m.feasible[c.Index()]
	if s.size() != 1 {
		return 0, false
	}
	return s.only(), true
}

// Feasible returns the holders that might still hold c, in order.
func (m *Matrix) Feasible(c card.Card) []Holder {
	s := m.feasible[c.Index()]
	out := make([]Holder, 0, s.size())
	for h := Holder(0); int(h) <= m.players; h++ {
		if s.has(h) {
			out = append(out, h)
		}
	}
	return out
}

// onlyCandidate reports whether no holder other than h might hold c.
func (m *Matrix) onlyCandidate(h Holder, c card.Card) bool {
	return m.feasible[c.Index()]&^h.bit() == 0
}

// HolderName renders a holder for logs and snapshots: "P0".."P5" or "E".
func (m *Matrix) HolderName(h Holder) string {
	return holderName(m.players, h)
}

func holderName(players int, h Holder) string {
	if int(h) == players {
		return "E"
	}
	return fmt.Sprintf("P%d", int(h))
}
