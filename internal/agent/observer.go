package agent

import (
	"fmt"
	"log/slog"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/engine"
	"github.com/roach88/speedclue/internal/game"
)

// Observer translates one seat's view of a game into engine edits.
//
// Reset discards everything and builds a fresh Engine, so a contradiction
// in one game never reaches the next.
type Observer struct {
	opts options

	engine *engine.Engine
	self   int
	hand   []card.Card

	// revealed holds, per asking seat, the cards this seat has shown it.
	revealed map[int][]card.Card
}

// NewObserver creates an observer with no game in progress.
func NewObserver(opts ...Option) *Observer {
	return &Observer{opts: buildOptions(opts)}
}

// Started reports whether a reset has been seen.
func (o *Observer) Started() bool {
	return o.engine != nil
}

// Engine returns the current game's engine, or nil before the first reset.
func (o *Observer) Engine() *engine.Engine {
	return o.engine
}

// Self returns the observing seat.
func (o *Observer) Self() int {
	return o.self
}

// Players returns the seat count of the current game.
func (o *Observer) Players() int {
	if o.engine == nil {
		return 0
	}
	return o.engine.Players()
}

// Hand returns the observing seat's own cards.
func (o *Observer) Hand() []card.Card {
	return append([]card.Card(nil), o.hand...)
}

// Revealed returns every card this seat has shown, in deck order.
func (o *Observer) Revealed() []card.Card {
	var out []card.Card
	for _, c := range o.hand {
		for _, cards := range o.revealed {
			if containsCard(cards, c) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Reset starts a new game: own hand held, quotas installed.
func (o *Observer) Reset(r game.Reset) error {
	if err := r.Validate(); err != nil {
		return err
	}

	e, err := engine.New(r.PlayerCount, append([]engine.Option{engine.WithLogger(o.opts.logger)}, o.opts.engineOpts...)...)
	if err != nil {
		return err
	}
	o.engine = e
	o.self = r.Self
	o.hand = sortedCards(r.Hand)
	o.revealed = make(map[int][]card.Card)

	for _, c := range o.hand {
		if _, err := e.MarkHeld(engine.Holder(r.Self), c); err != nil {
			return err
		}
	}
	o.opts.logger.Debug("game reset",
		"players", r.PlayerCount,
		"self", r.Self,
		"hand", len(o.hand),
	)
	return o.process()
}

// Suggestion applies a suggestion's outcome.
//
// Seats skipped by the disprove rotation hold none of the three cards. A
// shown card is held by the disprover. A disprover whose card was not seen
// holds at least one of the three. The suggester's own holdings are not
// constrained.
func (o *Observer) Suggestion(s game.Suggestion) error {
	if o.engine == nil {
		return ErrNotReset
	}
	players := o.engine.Players()
	if err := s.Validate(players); err != nil {
		return err
	}
	if s.Disproved() && s.Shown == nil && (s.Suggester == o.self || *s.Disprover == o.self) {
		return fmt.Errorf("%w: suggestion: seat %d took part but saw no card", game.ErrInvalidEvent, o.self)
	}

	for _, seat := range game.NonDisprovers(players, s.Suggester, s.Disprover) {
		for _, c := range s.Triplet.Cards() {
			if _, err := o.engine.MarkExcluded(engine.Holder(seat), c); err != nil {
				return err
			}
		}
	}

	switch {
	case s.Shown != nil:
		if _, err := o.engine.MarkHeld(engine.Holder(*s.Disprover), *s.Shown); err != nil {
			return err
		}
		// The referee shows a lone matching card without asking.
		if *s.Disprover == o.self && !containsCard(o.revealed[s.Suggester], *s.Shown) {
			o.revealed[s.Suggester] = append(o.revealed[s.Suggester], *s.Shown)
		}
	case s.Disprover != nil:
		if err := o.engine.AddAtLeastOneOf(engine.Holder(*s.Disprover), s.Triplet); err != nil {
			return err
		}
	}

	o.opts.logger.Debug("suggestion observed",
		"suggester", s.Suggester,
		"triplet", s.Triplet.Codes(),
		"disproved", s.Disproved(),
	)
	return o.process()
}

// Accusation applies an accusation's outcome. A wrong accusation rules out
// the envelope holding exactly that triplet.
func (o *Observer) Accusation(a game.Accusation) error {
	if o.engine == nil {
		return ErrNotReset
	}
	if err := a.Validate(o.engine.Players()); err != nil {
		return err
	}
	if a.Won {
		return nil
	}
	if err := o.engine.AddNotAllThree(o.engine.Envelope(), a.Triplet); err != nil {
		return err
	}
	return o.process()
}

// DisproveCard picks the card to show asker, preferring one asker has
// already seen, then one already shown to anybody.
func (o *Observer) DisproveCard(asker int, t card.Triplet) (card.Card, bool, error) {
	if o.engine == nil {
		return card.Card{}, false, ErrNotReset
	}
	candidates := game.DisproveCards(o.hand, t)
	if len(candidates) == 0 {
		return card.Card{}, false, nil
	}

	pick := candidates[0]
	shownTo, shownAny := false, false
	for _, c := range candidates {
		if containsCard(o.revealed[asker], c) {
			pick, shownTo = c, true
			break
		}
		if !shownAny {
			for _, cards := range o.revealed {
				if containsCard(cards, c) {
					pick, shownAny = c, true
					break
				}
			}
		}
	}
	if !shownTo {
		o.revealed[asker] = append(o.revealed[asker], pick)
	}
	return pick, true, nil
}

func (o *Observer) process() error {
	_, err := o.engine.ProcessInferences()
	return err
}

func containsCard(cards []card.Card, c card.Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// sortedCards copies cards into deck order.
func sortedCards(cards []card.Card) []card.Card {
	var out []card.Card
	for _, c := range card.All() {
		if containsCard(cards, c) {
			out = append(out, c)
		}
	}
	return out
}

// logger exposes the configured logger to the agents in this package.
func (o *Observer) logger() *slog.Logger {
	return o.opts.logger
}
