package store

import (
	"fmt"

	"github.com/roach88/speedclue/internal/agent"
	"github.com/roach88/speedclue/internal/game"
	"github.com/roach88/speedclue/internal/referee"
)

// ReplayStep is called after each logged event has been applied.
type ReplayStep func(ev referee.Event, obs *agent.Observer) error

// Replay feeds seat's view of the match through a fresh Observer: the
// seat's own deal, then every suggestion and accusation as that seat would
// have received it. Violation events are passed to step without changing
// the observer.
func (m Match) Replay(seat int, step ReplayStep, opts ...agent.Option) (*agent.Observer, error) {
	if seat < 0 || seat >= len(m.Seats) {
		return nil, fmt.Errorf("replay: seat %d outside [0, %d)", seat, len(m.Seats))
	}

	obs := agent.NewObserver(opts...)
	if err := obs.Reset(game.Reset{PlayerCount: m.Players, Self: seat, Hand: m.Seats[seat].Hand}); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	for _, ev := range m.Events {
		var err error
		switch ev.Kind {
		case referee.EventSuggestion:
			err = obs.Suggestion(ev.SuggestionFor(seat))
		case referee.EventAccusation:
			err = obs.Accusation(ev.Accusation())
		}
		if err != nil {
			return obs, fmt.Errorf("replay event %d: %w", ev.Seq, err)
		}
		if step != nil {
			if err := step(ev, obs); err != nil {
				return obs, err
			}
		}
	}
	return obs, nil
}
