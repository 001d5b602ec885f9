package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/engine"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

func checkAssertion(e *engine.Engine, runErr error, players int, a Assertion) error {
	if a.Type == AssertContradiction {
		if engine.IsContradiction(runErr) {
			return nil
		}
		actual := "no error"
		if runErr != nil {
			actual = runErr.Error()
		}
		return &AssertionError{Type: a.Type, Expected: "a contradiction", Actual: actual}
	}
	if runErr != nil {
		return &AssertionError{Type: a.Type, Expected: "a consistent game", Actual: runErr.Error()}
	}

	switch a.Type {
	case AssertMurderSet:
		return assertMurderSet(e, a)
	case AssertHeld, AssertExcluded:
		return assertCell(e, players, a)
	case AssertUndeterminedCount:
		if n := len(e.UndeterminedCards()); n != a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Count), Actual: fmt.Sprint(n)}
		}
	case AssertPendingConstraints:
		pending := e.PendingConstraints()
		if len(pending) != a.Count {
			descs := make([]string, len(pending))
			for i, c := range pending {
				descs[i] = c.String()
			}
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprint(a.Count),
				Actual:   fmt.Sprintf("%d [%s]", len(pending), strings.Join(descs, "; ")),
			}
		}
	case AssertKnownHand:
		return assertKnownHand(e, players, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertMurderSet(e *engine.Engine, a Assertion) error {
	got, ok := e.CandidateMurderSet()
	actual := "none"
	if ok {
		actual = got.String()
	}

	if len(a.Cards) == 0 {
		if ok {
			return &AssertionError{Type: a.Type, Expected: "none", Actual: actual}
		}
		return nil
	}
	want, err := parseTriplet(a.Cards)
	if err != nil {
		return err
	}
	if !ok || got != want {
		return &AssertionError{Type: a.Type, Expected: want.String(), Actual: actual}
	}
	return nil
}

func assertCell(e *engine.Engine, players int, a Assertion) error {
	h, err := parseHolder(a.Holder, players)
	if err != nil {
		return err
	}
	c, err := card.Parse(a.Card)
	if err != nil {
		return err
	}

	held := e.IsHeldBy(engine.Holder(h), c)
	possible := e.MightHold(engine.Holder(h), c)
	state := "undetermined"
	switch {
	case held:
		state = "held"
	case !possible:
		state = "excluded"
	}

	if state != a.Type {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s %s %s", holderName(h, players), a.Type, c.Name()),
			Actual:   state,
		}
	}
	return nil
}

func assertKnownHand(e *engine.Engine, players int, a Assertion) error {
	seat, err := parseHolder(a.Holder, players)
	if err != nil {
		return err
	}
	want, err := parseCards(a.Cards)
	if err != nil {
		return err
	}

	got, ok := e.FullyKnownHand(seat)
	if !ok {
		return &AssertionError{Type: a.Type, Expected: cardNames(want), Actual: "hand not fully known"}
	}
	if !sameCards(got, want) {
		return &AssertionError{Type: a.Type, Expected: cardNames(want), Actual: cardNames(got)}
	}
	return nil
}

func sameCards(a, b []card.Card) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[card.Card]bool, len(a))
	for _, c := range a {
		seen[c] = true
	}
	for _, c := range b {
		if !seen[c] {
			return false
		}
	}
	return true
}

func cardNames(cards []card.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name()
	}
	return "[" + strings.Join(names, " ") + "]"
}
