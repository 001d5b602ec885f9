package agent

import (
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

// Random is the baseline agent. It keeps no deductions: it suggests
// uniformly among triplets it has not suggested yet, disproves with a random
// matching card, and accuses only when one of its own suggestions went
// undisproved and contained none of its cards.
type Random struct {
	rng    *rand.Rand
	logger *slog.Logger

	started   bool
	self      int
	hand      []card.Card
	suggested map[card.Triplet]bool
	accusal   *card.Triplet
}

// NewRandom creates a Random agent drawing from rng.
func NewRandom(rng *rand.Rand, opts ...Option) *Random {
	o := buildOptions(opts)
	return &Random{rng: rng, logger: o.logger}
}

// Reset implements Agent.
func (r *Random) Reset(ev game.Reset) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	r.started = true
	r.self = ev.Self
	r.hand = sortedCards(ev.Hand)
	r.suggested = make(map[card.Triplet]bool)
	r.accusal = nil
	return nil
}

// Suggestion implements Agent.
func (r *Random) Suggestion(s game.Suggestion) error {
	if !r.started {
		return ErrNotReset
	}
	if s.Suggester != r.self || s.Disproved() {
		return nil
	}
	for _, c := range s.Triplet.Cards() {
		if containsCard(r.hand, c) {
			return nil
		}
	}
	t := s.Triplet
	r.accusal = &t
	return nil
}

// Accusation implements Agent.
func (r *Random) Accusation(game.Accusation) error {
	if !r.started {
		return ErrNotReset
	}
	return nil
}

// Suggest implements Agent.
func (r *Random) Suggest() (card.Triplet, error) {
	if !r.started {
		return card.Triplet{}, ErrNotReset
	}
	var open []card.Triplet
	for _, t := range card.AllTriplets() {
		if !r.suggested[t] {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return card.Triplet{}, ErrNoSuggestion
	}
	t := open[r.rng.IntN(len(open))]
	r.suggested[t] = true
	return t, nil
}

// Accuse implements Agent.
func (r *Random) Accuse() (card.Triplet, bool, error) {
	if !r.started {
		return card.Triplet{}, false, ErrNotReset
	}
	if r.accusal == nil {
		return card.Triplet{}, false, nil
	}
	r.logger.Info("accusing", "seat", r.self, "triplet", r.accusal.Codes())
	return *r.accusal, true, nil
}

// Disprove implements Agent.
func (r *Random) Disprove(asker int, t card.Triplet) (card.Card, bool, error) {
	if !r.started {
		return card.Card{}, false, ErrNotReset
	}
	cards := game.DisproveCards(r.hand, t)
	if len(cards) == 0 {
		return card.Card{}, false, nil
	}
	return cards[r.rng.IntN(len(cards))], true, nil
}
