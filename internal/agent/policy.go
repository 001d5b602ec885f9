package agent

import (
	"math/rand/v2"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/engine"
)

// Policy picks suggestions from what an Observer knows. Policies keep their
// own history and are reset with the game.
type Policy interface {
	Reset(players, self int)
	Next(o *Observer) (card.Triplet, error)
}

// maxDraws bounds the random draws before a policy falls back to scanning
// for an unused triplet.
const maxDraws = 64

// RandomPolicy suggests one card whose holder is still undetermined and
// fills the other two categories uniformly. It never repeats a suggestion.
type RandomPolicy struct {
	rng       *rand.Rand
	suggested map[card.Triplet]bool
}

// NewRandomPolicy creates a RandomPolicy drawing from rng.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng, suggested: make(map[card.Triplet]bool)}
}

// Reset forgets earlier suggestions.
func (p *RandomPolicy) Reset(players, self int) {
	clear(p.suggested)
}

// Next draws a suggestion.
func (p *RandomPolicy) Next(o *Observer) (card.Triplet, error) {
	if !o.Started() {
		return card.Triplet{}, ErrNotReset
	}
	pool := o.Engine().UndeterminedCards()
	return draw(p.rng, p.suggested, pool, nil)
}

// FocusPolicy layers two heuristics over RandomPolicy.
//
// The never-suggest set holds cards that cannot teach anything: cards this
// seat has shown to others and the full hand of any target already
// determined. The target is one opponent at a time, starting with the seat
// after self; informative cards the target might hold are preferred. Once
// the target's hand is fully known, the target moves on clockwise.
type FocusPolicy struct {
	rng       *rand.Rand
	suggested map[card.Triplet]bool
	never     map[card.Card]bool

	players int
	self    int
	target  int
}

// NewFocusPolicy creates a FocusPolicy drawing from rng.
func NewFocusPolicy(rng *rand.Rand) *FocusPolicy {
	return &FocusPolicy{
		rng:       rng,
		suggested: make(map[card.Triplet]bool),
		never:     make(map[card.Card]bool),
	}
}

// Reset forgets the history and targets the seat after self.
func (p *FocusPolicy) Reset(players, self int) {
	clear(p.suggested)
	clear(p.never)
	p.players = players
	p.self = self
	p.target = (self + 1) % players
}

// Target returns the opponent currently focused on.
func (p *FocusPolicy) Target() int {
	return p.target
}

// Never reports whether c is in the never-suggest set.
func (p *FocusPolicy) Never(c card.Card) bool {
	return p.never[c]
}

// Next draws a suggestion.
func (p *FocusPolicy) Next(o *Observer) (card.Triplet, error) {
	if !o.Started() {
		return card.Triplet{}, ErrNotReset
	}
	e := o.Engine()
	if p.players != o.Players() || p.self != o.Self() {
		p.Reset(o.Players(), o.Self())
	}

	for _, c := range o.Revealed() {
		p.never[c] = true
	}
	p.updateTarget(e)

	var pool, focused []card.Card
	for _, c := range e.UndeterminedCards() {
		if p.never[c] {
			continue
		}
		pool = append(pool, c)
		if p.target != p.self && e.MightHold(engine.Holder(p.target), c) {
			focused = append(focused, c)
		}
	}
	if len(focused) > 0 {
		pool = focused
	}
	return draw(p.rng, p.suggested, pool, p.never)
}

// updateTarget moves past every opponent whose hand is already known,
// adding their cards to the never-suggest set. It stops at self.
func (p *FocusPolicy) updateTarget(e *engine.Engine) {
	for p.target != p.self {
		hand, ok := e.FullyKnownHand(p.target)
		if !ok {
			return
		}
		for _, c := range hand {
			p.never[c] = true
		}
		p.target = (p.target + 1) % p.players
	}
}

// draw picks an informative card from pool and fills the other two
// categories at random, skipping cards in never where the category allows.
// An empty pool means any card will do.
func draw(rng *rand.Rand, suggested map[card.Triplet]bool, pool []card.Card, never map[card.Card]bool) (card.Triplet, error) {
	for i := 0; i < maxDraws; i++ {
		var t card.Triplet
		var fixed card.Category
		if len(pool) > 0 {
			c := pool[rng.IntN(len(pool))]
			fixed = c.Category
			setCard(&t, c)
		}
		for _, cat := range card.Categories {
			if cat == fixed {
				continue
			}
			choices := allowed(cat, never)
			setCard(&t, choices[rng.IntN(len(choices))])
		}
		if !suggested[t] {
			suggested[t] = true
			return t, nil
		}
	}

	// Dense history: take the first unused triplet from a random offset.
	all := card.AllTriplets()
	start := rng.IntN(len(all))
	for i := range all {
		t := all[(start+i)%len(all)]
		if !suggested[t] {
			suggested[t] = true
			return t, nil
		}
	}
	return card.Triplet{}, ErrNoSuggestion
}

func allowed(cat card.Category, never map[card.Card]bool) []card.Card {
	all := card.OfCategory(cat)
	var out []card.Card
	for _, c := range all {
		if !never[c] {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return all
	}
	return out
}

func setCard(t *card.Triplet, c card.Card) {
	switch c.Category {
	case card.Suspect:
		t.Suspect = c
	case card.Weapon:
		t.Weapon = c
	case card.Room:
		t.Room = c
	}
}
