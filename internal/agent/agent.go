// Package agent turns game events into engine state and decisions.
//
// An Observer owns one Engine per game and applies the event translation
// rules. Agents wrap an Observer (or, for the baseline Random agent, their
// own bookkeeping) and answer the referee's requests.
package agent

import (
	"errors"
	"log/slog"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/engine"
	"github.com/roach88/speedclue/internal/game"
)

// ErrNotReset is returned for any event or request that arrives before the
// first reset.
var ErrNotReset = errors.New("agent: no game in progress")

// ErrNoSuggestion is returned when every triplet has already been suggested.
var ErrNoSuggestion = errors.New("agent: no suggestion left")

// Agent is the contract between a transport and a playing strategy.
//
// Event methods (Reset, Suggestion, Accusation) update the agent's
// knowledge. Request methods (Suggest, Accuse, Disprove) ask for a decision.
type Agent interface {
	Reset(r game.Reset) error
	Suggestion(s game.Suggestion) error
	Accusation(a game.Accusation) error

	// Suggest returns the triplet to suggest this turn.
	Suggest() (card.Triplet, error)

	// Accuse returns the triplet to accuse and true, or false to pass.
	Accuse() (card.Triplet, bool, error)

	// Disprove returns a card of the agent's hand that appears in t, or
	// false when the agent holds none of them.
	Disprove(asker int, t card.Triplet) (card.Card, bool, error)
}

// Option configures an Observer or an agent built on one.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	engineOpts []engine.Option
}

// WithLogger sets the logger for event diagnostics. The engine shares it.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithEngineOptions passes options to every Engine the observer creates.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
