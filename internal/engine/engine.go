package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

// Engine drives the Possession Matrix, the Constraint Store and the Quota
// Rules to a fixpoint and answers the queries agents decide with.
//
// One Engine describes one game from one agent's point of view. A new game
// gets a new Engine; nothing carries over.
//
// Thread-safety: none. The engine is driven synchronously by the goroutine
// that reads the agent's events.
type Engine struct {
	matrix    *Matrix
	store     constraintStore
	quotas    []Quota
	handSizes []int

	// maxPasses overrides the computed pass limit when positive.
	maxPasses int

	// err is sticky: after a contradiction every call returns it.
	err error

	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxPasses caps the number of passes a single ProcessInferences call may
// run. The default is derived from the matrix size and is never reached by
// a correct rule set; a small value is useful in tests.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		e.maxPasses = n
	}
}

// WithLogger sets the logger used for fixpoint diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Stats describes one ProcessInferences call.
type Stats struct {
	// Passes is the number of passes run, including the final quiet one.
	Passes int

	// Retired is the number of constraints removed from the store.
	Retired int

	// Pending is the store size at the fixpoint.
	Pending int
}

// New creates the engine for a game with the given number of seats. Every
// holder might hold every card, and the quotas are installed.
func New(players int, opts ...Option) (*Engine, error) {
	if err := game.ValidatePlayerCount(players); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		matrix:    NewMatrix(players),
		handSizes: game.HandSizes(players),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	envelope := e.matrix.Envelope()
	for _, cat := range card.Categories {
		e.quotas = append(e.quotas, Quota{Holder: envelope, Cards: card.OfCategory(cat), Count: 1})
	}
	deck := card.All()
	for seat, n := range e.handSizes {
		e.quotas = append(e.quotas, Quota{Holder: Holder(seat), Cards: deck, Count: n})
	}

	return e, nil
}

// Players returns the number of seats.
func (e *Engine) Players() int {
	return e.matrix.Players()
}

// Envelope returns the envelope's holder slot.
func (e *Engine) Envelope() Holder {
	return e.matrix.Envelope()
}

// HandSize returns the quota of a seat.
func (e *Engine) HandSize(seat int) int {
	return e.handSizes[seat]
}

// Quotas returns the installed quotas.
func (e *Engine) Quotas() []Quota {
	return append([]Quota(nil), e.quotas...)
}

// Err returns the sticky contradiction, if any.
func (e *Engine) Err() error {
	return e.err
}

// guard converts a contradiction panic from the matrix into a returned error
// and poisons the engine. Any other panic is re-raised.
func (e *Engine) guard(err *error) {
	r := recover()
	if r == nil {
		return
	}
	ce, ok := r.(*ContradictionError)
	if !ok {
		panic(r)
	}
	e.err = ce
	*err = ce
	e.logger.Error("inference contradiction",
		"rule", ce.Rule,
		"holder", e.matrix.HolderName(ce.Holder),
		"card", ce.Card,
		"error", ce.Message,
	)
}

func (e *Engine) check(h Holder, cards ...card.Card) error {
	if e.err != nil {
		return e.err
	}
	if !e.matrix.Valid(h) {
		return fmt.Errorf("engine: %w: %d", ErrInvalidHolder, h)
	}
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("engine: %w: %v", card.ErrUnknownCard, c)
		}
	}
	return nil
}

// MarkHeld records that h holds c.
func (e *Engine) MarkHeld(h Holder, c card.Card) (changed bool, err error) {
	if err := e.check(h, c); err != nil {
		return false, err
	}
	defer e.guard(&err)
	return e.matrix.MarkHeld(h, c), nil
}

// MarkExcluded records that h does not hold c.
func (e *Engine) MarkExcluded(h Holder, c card.Card) (changed bool, err error) {
	if err := e.check(h, c); err != nil {
		return false, err
	}
	defer e.guard(&err)
	return e.matrix.MarkExcluded(h, c), nil
}

// AddNotAllThree records that h does not hold all three cards of t.
func (e *Engine) AddNotAllThree(h Holder, t card.Triplet) error {
	return e.addConstraint(Constraint{Kind: NotAllThree, Holder: h, Triplet: t})
}

// AddAtLeastOneOf records that h holds at least one card of t.
func (e *Engine) AddAtLeastOneOf(h Holder, t card.Triplet) error {
	return e.addConstraint(Constraint{Kind: AtLeastOneOf, Holder: h, Triplet: t})
}

func (e *Engine) addConstraint(c Constraint) error {
	cards := c.Triplet.Cards()
	if err := e.check(c.Holder, cards[:]...); err != nil {
		return err
	}
	if !c.Triplet.Valid() {
		return fmt.Errorf("engine: malformed triplet %v", c.Triplet)
	}
	if e.store.add(c) {
		e.logger.Debug("constraint added", "constraint", c.String(), "pending", e.store.Len())
	}
	return nil
}

// ProcessInferences runs constraint resolution and the quota rules until a
// pass produces no matrix change and retires no constraint.
func (e *Engine) ProcessInferences() (stats Stats, err error) {
	if e.err != nil {
		return Stats{}, e.err
	}
	defer e.guard(&err)

	limit := e.passLimit()
	for {
		if stats.Passes >= limit {
			err := &PassLimitError{Passes: stats.Passes, Limit: limit}
			e.err = err
			return stats, err
		}
		stats.Passes++

		retired, changed := e.store.resolveAll(e.matrix)
		stats.Retired += retired
		for _, q := range e.quotas {
			if q.apply(e.matrix) {
				changed = true
			}
		}

		if retired == 0 && !changed {
			break
		}
	}
	stats.Pending = e.store.Len()

	e.logger.Debug("inference fixpoint",
		"passes", stats.Passes,
		"retired", stats.Retired,
		"pending", stats.Pending,
	)
	return stats, nil
}

// passLimit bounds the fixpoint loop: every productive pass removes a
// matrix possibility or retires a constraint, plus one final quiet pass.
func (e *Engine) passLimit() int {
	if e.maxPasses > 0 {
		return e.maxPasses
	}
	return card.Count*(e.Players()+1) + e.store.Len() + 1
}

// IsHeldBy reports whether c is known to be held by h.
func (e *Engine) IsHeldBy(h Holder, c card.Card) bool {
	return e.matrix.IsHeldBy(h, c)
}

// MightHold reports whether h might still hold c.
func (e *Engine) MightHold(h Holder, c card.Card) bool {
	return e.matrix.MightHold(h, c)
}

// IsFullyDetermined reports whether c has a single possible holder.
func (e *Engine) IsFullyDetermined(c card.Card) bool {
	return e.matrix.IsFullyDetermined(c)
}

// DeterminedHolder returns the unique holder of c, if known.
func (e *Engine) DeterminedHolder(c card.Card) (Holder, bool) {
	return e.matrix.DeterminedHolder(c)
}

// Feasible returns the holders that might still hold c.
func (e *Engine) Feasible(c card.Card) []Holder {
	return e.matrix.Feasible(c)
}

// CandidateMurderSet returns the envelope's contents when exactly one card
// of each category is determined to be in it.
func (e *Engine) CandidateMurderSet() (card.Triplet, bool) {
	envelope := e.Envelope()
	var t card.Triplet
	for _, cat := range card.Categories {
		found := 0
		for _, c := range card.OfCategory(cat) {
			if h, ok := e.matrix.DeterminedHolder(c); ok && h == envelope {
				found++
				switch cat {
				case card.Suspect:
					t.Suspect = c
				case card.Weapon:
					t.Weapon = c
				case card.Room:
					t.Room = c
				}
			}
		}
		if found != 1 {
			return card.Triplet{}, false
		}
	}
	return t, true
}

// UndeterminedCards returns the cards that still have more than one
// possible holder, in deck order.
func (e *Engine) UndeterminedCards() []card.Card {
	var out []card.Card
	for _, c := range card.All() {
		if !e.matrix.IsFullyDetermined(c) {
			out = append(out, c)
		}
	}
	return out
}

// EnvelopeCandidates returns the cards of cat that might still be in the
// envelope.
func (e *Engine) EnvelopeCandidates(cat card.Category) []card.Card {
	envelope := e.Envelope()
	var out []card.Card
	for _, c := range card.OfCategory(cat) {
		if e.matrix.MightHold(envelope, c) {
			out = append(out, c)
		}
	}
	return out
}

// FullyKnownHand returns a seat's hand when every card of it is determined.
func (e *Engine) FullyKnownHand(seat int) ([]card.Card, bool) {
	if seat < 0 || seat >= e.Players() {
		return nil, false
	}
	var hand []card.Card
	for _, c := range card.All() {
		if e.matrix.IsHeldBy(Holder(seat), c) {
			hand = append(hand, c)
		}
	}
	if len(hand) != e.handSizes[seat] {
		return nil, false
	}
	return hand, true
}

// PendingConstraints returns the open constraints in arrival order.
func (e *Engine) PendingConstraints() []Constraint {
	return e.store.list()
}
