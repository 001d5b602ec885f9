package referee

import (
	"context"

	"github.com/roach88/speedclue/internal/agent"
	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

// Player is one seat's participant: a built-in agent or a remote
// connection (see transport.RemotePlayer).
type Player interface {
	agent.Agent
	Name() string

	// Done ends the player's session after the last game.
	Done() error
}

// Local adapts an in-process agent to Player.
type Local struct {
	name  string
	agent agent.Agent
}

// NewLocal wraps a.
func NewLocal(name string, a agent.Agent) *Local {
	return &Local{name: name, agent: a}
}

func (l *Local) Name() string { return l.name }
func (l *Local) Reset(r game.Reset) error { return l.agent.Reset(r) }
func (l *Local) Suggestion(s game.Suggestion) error { return l.agent.Suggestion(s) }
func (l *Local) Accusation(a game.Accusation) error { return l.agent.Accusation(a) }
func (l *Local) Suggest() (card.Triplet, error) { return l.agent.Suggest() }
func (l *Local) Accuse() (card.Triplet, bool, error) { return l.agent.Accuse() }
func (l *Local) Done() error { return nil }

func (l *Local) Disprove(asker int, t card.Triplet) (card.Card, bool, error) {
	return l.agent.Disprove(asker, t)
}

// Deal is what a match starts from.
type Deal struct {
	Names    []string
	Solution card.Triplet
	Hands    [][]card.Card
}

// EventKind identifies a recorded match event.
type EventKind string

const (
	EventSuggestion EventKind = "suggestion"
	EventAccusation EventKind = "accusation"
	EventViolation  EventKind = "violation"
)

// Event is one recorded step of a match, seen from the referee.
type Event struct {
	Seq   int
	Round int
	Kind  EventKind
	Seat  int

	Triplet   card.Triplet
	Disprover *int
	Shown     *card.Card
	Won       bool

	Violation ViolationKind
	Detail    string
}

// SuggestionFor returns the suggestion as seat observed it: the shown card
// is visible only to the suggester and the disprover.
func (e Event) SuggestionFor(seat int) game.Suggestion {
	s := game.Suggestion{Suggester: e.Seat, Triplet: e.Triplet, Disprover: e.Disprover}
	if e.Disprover != nil && e.Shown != nil && (seat == e.Seat || seat == *e.Disprover) {
		s.Shown = game.Shown(*e.Shown)
	}
	return s
}

// Accusation returns the accusation event.
func (e Event) Accusation() game.Accusation {
	return game.Accusation{Accuser: e.Seat, Triplet: e.Triplet, Won: e.Won}
}

// Result is the outcome of one match.
type Result struct {
	Names    []string
	Solution card.Triplet

	// Winner is the winning seat, or -1 when nobody won.
	Winner int

	// ByDefault is set when the winner was the last seat standing.
	ByDefault bool

	Rounds     int
	Eliminated []int
	Violations []*Violation
}

// WinnerName returns the winner's name, or "" when nobody won.
func (r Result) WinnerName() string {
	if r.Winner < 0 {
		return ""
	}
	return r.Names[r.Winner]
}

// Recorder receives a match as it is played.
type Recorder interface {
	Begin(ctx context.Context, d Deal) error
	Record(ctx context.Context, e Event) error
	Finish(ctx context.Context, r Result) error
}

type nopRecorder struct{}

func (nopRecorder) Begin(context.Context, Deal) error { return nil }
func (nopRecorder) Record(context.Context, Event) error { return nil }
func (nopRecorder) Finish(context.Context, Result) error { return nil }
