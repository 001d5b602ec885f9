package harness

import (
	"fmt"

	"github.com/roach88/speedclue/internal/agent"
	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/engine"
	"github.com/roach88/speedclue/internal/game"
	"github.com/roach88/speedclue/internal/protocol"
)

// Run applies a scenario to a fresh Observer and checks its assertions.
//
// An error is returned only when the scenario cannot be set up. Failures
// while applying events are recorded in Result.Err and stop the run;
// whether they fail the scenario depends on its assertions.
func Run(s *Scenario, opts ...agent.Option) (*Result, error) {
	result := NewResult(s.Name)

	hand, err := parseCards(s.Hand)
	if err != nil {
		return nil, fmt.Errorf("hand: %w", err)
	}
	obs := agent.NewObserver(opts...)
	if err := obs.Reset(game.Reset{PlayerCount: s.Players, Self: s.Self, Hand: hand}); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	e := obs.Engine()

	var runErr error
	for i, ev := range s.Events {
		line, err := apply(obs, ev, s.Players)
		if err != nil {
			runErr = fmt.Errorf("events[%d] %s: %w", i, line, err)
			break
		}
		step := Step{
			Index:        i,
			Event:        line,
			Undetermined: len(e.UndeterminedCards()),
			Pending:      len(e.PendingConstraints()),
		}
		if t, ok := e.CandidateMurderSet(); ok {
			step.Murder = t.Codes()
		}
		result.Steps = append(result.Steps, step)
	}
	if runErr != nil {
		result.Err = runErr.Error()
	}
	result.Snapshot = e.Snapshot().Format()

	expectsFailure := false
	for _, a := range s.Assertions {
		if a.Type == AssertContradiction {
			expectsFailure = true
		}
		if err := checkAssertion(e, runErr, s.Players, a); err != nil {
			result.AddError(err.Error())
		}
	}
	if runErr != nil && !expectsFailure {
		result.AddError(runErr.Error())
	}
	return result, nil
}

// apply feeds one event to the observer and returns its printable form.
func apply(obs *agent.Observer, ev Event, players int) (string, error) {
	e := obs.Engine()
	switch {
	case ev.Suggestion != nil:
		sg, err := ev.Suggestion.suggestion(players)
		if err != nil {
			return "suggestion", err
		}
		line := protocol.Request{Kind: protocol.KindSuggestion, Suggestion: sg}.String()
		return line, obs.Suggestion(sg)

	case ev.Accusation != nil:
		ac, err := ev.Accusation.accusation(players)
		if err != nil {
			return "accusation", err
		}
		line := protocol.Request{Kind: protocol.KindAccusation, Accusation: ac}.String()
		return line, obs.Accusation(ac)

	case ev.Held != nil:
		return applyFact(e, "held", *ev.Held, players, e.MarkHeld)

	case ev.Excluded != nil:
		return applyFact(e, "excluded", *ev.Excluded, players, e.MarkExcluded)
	}
	return "", fmt.Errorf("empty event")
}

func applyFact(e *engine.Engine, verb string, f FactStep, players int, mark func(engine.Holder, card.Card) (bool, error)) (string, error) {
	h, err := parseHolder(f.Holder, players)
	if err != nil {
		return verb, err
	}
	c, err := card.Parse(f.Card)
	if err != nil {
		return verb, err
	}
	line := fmt.Sprintf("%s %s %s", verb, holderName(h, players), c.Code())
	if _, err := mark(engine.Holder(h), c); err != nil {
		return line, err
	}
	_, err = e.ProcessInferences()
	return line, err
}

func holderName(h, players int) string {
	if h == players {
		return "E"
	}
	return fmt.Sprintf("P%d", h)
}
