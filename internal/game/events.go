package game

import (
	"errors"
	"fmt"

	"github.com/roach88/speedclue/internal/card"
)

// ErrInvalidEvent marks an event whose fields are inconsistent with the game.
var ErrInvalidEvent = errors.New("invalid event")

// Reset starts a new game for one seat.
type Reset struct {
	PlayerCount int
	Self        int
	Hand        []card.Card
}

// Validate checks the seat, hand size and hand contents.
func (r Reset) Validate() error {
	if err := ValidatePlayerCount(r.PlayerCount); err != nil {
		return fmt.Errorf("%w: reset: %v", ErrInvalidEvent, err)
	}
	if r.Self < 0 || r.Self >= r.PlayerCount {
		return fmt.Errorf("%w: reset: seat %d of %d", ErrInvalidEvent, r.Self, r.PlayerCount)
	}
	if want := HandSize(r.PlayerCount, r.Self); len(r.Hand) != want {
		return fmt.Errorf("%w: reset: seat %d holds %d cards, want %d", ErrInvalidEvent, r.Self, len(r.Hand), want)
	}
	seen := make(map[card.Card]bool, len(r.Hand))
	for _, c := range r.Hand {
		if !c.Valid() {
			return fmt.Errorf("%w: reset: %v", ErrInvalidEvent, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: reset: %s dealt twice", ErrInvalidEvent, c)
		}
		seen[c] = true
	}
	return nil
}

// Suggestion reports a suggestion and its outcome to one observer.
//
// Disprover is nil when nobody could disprove. Shown is nil unless the
// observer was the suggester or the disprover and therefore saw the card.
// A non-nil Disprover with a nil Shown is the "disproved, card unknown" case.
type Suggestion struct {
	Suggester int
	Triplet   card.Triplet
	Disprover *int
	Shown     *card.Card
}

// Disproved reports whether some seat disproved the suggestion.
func (s Suggestion) Disproved() bool {
	return s.Disprover != nil
}

// Validate checks seat ranges and the shown card against the triplet.
func (s Suggestion) Validate(players int) error {
	if s.Suggester < 0 || s.Suggester >= players {
		return fmt.Errorf("%w: suggestion: suggester %d of %d", ErrInvalidEvent, s.Suggester, players)
	}
	if !s.Triplet.Valid() {
		return fmt.Errorf("%w: suggestion: malformed triplet %v", ErrInvalidEvent, s.Triplet)
	}
	if s.Disprover != nil {
		d := *s.Disprover
		if d < 0 || d >= players || d == s.Suggester {
			return fmt.Errorf("%w: suggestion: disprover %d", ErrInvalidEvent, d)
		}
	}
	if s.Shown != nil {
		if s.Disprover == nil {
			return fmt.Errorf("%w: suggestion: card shown without a disprover", ErrInvalidEvent)
		}
		if !s.Triplet.Contains(*s.Shown) {
			return fmt.Errorf("%w: suggestion: shown %s is not in %s", ErrInvalidEvent, *s.Shown, s.Triplet)
		}
	}
	return nil
}

// Accusation reports an accusation and whether it won.
type Accusation struct {
	Accuser int
	Triplet card.Triplet
	Won     bool
}

// Validate checks the accuser seat and the triplet.
func (a Accusation) Validate(players int) error {
	if a.Accuser < 0 || a.Accuser >= players {
		return fmt.Errorf("%w: accusation: accuser %d of %d", ErrInvalidEvent, a.Accuser, players)
	}
	if !a.Triplet.Valid() {
		return fmt.Errorf("%w: accusation: malformed triplet %v", ErrInvalidEvent, a.Triplet)
	}
	return nil
}

// Seat returns a pointer to i, for optional seat fields.
func Seat(i int) *int {
	return &i
}

// Shown returns a pointer to c, for the optional shown card.
func Shown(c card.Card) *card.Card {
	return &c
}
