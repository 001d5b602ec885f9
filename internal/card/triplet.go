package card

import (
	"fmt"
	"strings"
)

// Triplet is one suspect, one weapon and one room. It is used for
// suggestions, accusations and the envelope contents.
type Triplet struct {
	Suspect Card
	Weapon  Card
	Room    Card
}

// NewTriplet builds a triplet from three cards given in any order.
// Exactly one card of each category is required.
func NewTriplet(a, b, c Card) (Triplet, error) {
	var t Triplet
	for _, x := range [3]Card{a, b, c} {
		if !x.Valid() {
			return Triplet{}, fmt.Errorf("triplet: %w: %v", ErrUnknownCard, x)
		}
		slot := t.slot(x.Category)
		if slot.Valid() {
			return Triplet{}, fmt.Errorf("triplet: two %s cards (%s, %s)", x.Category, *slot, x)
		}
		*slot = x
	}
	return t, nil
}

// MustTriplet is like NewTriplet but panics on error.
// Use only in tests or with constant cards.
func MustTriplet(a, b, c Card) Triplet {
	t, err := NewTriplet(a, b, c)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Triplet) slot(cat Category) *Card {
	switch cat {
	case Suspect:
		return &t.Suspect
	case Weapon:
		return &t.Weapon
	default:
		return &t.Room
	}
}

// Valid reports whether each slot holds a card of the matching category.
func (t Triplet) Valid() bool {
	return t.Suspect.Valid() && t.Suspect.Category == Suspect &&
		t.Weapon.Valid() && t.Weapon.Category == Weapon &&
		t.Room.Valid() && t.Room.Category == Room
}

// Cards returns the three cards in category order.
func (t Triplet) Cards() [3]Card {
	return [3]Card{t.Suspect, t.Weapon, t.Room}
}

// Get returns the card of the given category.
func (t Triplet) Get(cat Category) Card {
	return *t.slot(cat)
}

// Contains reports whether c is one of the triplet's cards.
func (t Triplet) Contains(c Card) bool {
	return t.Suspect == c || t.Weapon == c || t.Room == c
}

// Codes returns the space separated wire codes, e.g. "Pl Kn Lo".
func (t Triplet) Codes() string {
	return t.Suspect.Code() + " " + t.Weapon.Code() + " " + t.Room.Code()
}

func (t Triplet) String() string {
	return "{" + t.Suspect.Name() + ", " + t.Weapon.Name() + ", " + t.Room.Name() + "}"
}

// ParseTriplet reads three wire codes in any order.
func ParseTriplet(codes []string) (Triplet, error) {
	if len(codes) != 3 {
		return Triplet{}, fmt.Errorf("triplet: want 3 cards, got %d (%s)", len(codes), strings.Join(codes, " "))
	}
	var cards [3]Card
	for i, code := range codes {
		c, err := ParseCode(code)
		if err != nil {
			return Triplet{}, err
		}
		cards[i] = c
	}
	return NewTriplet(cards[0], cards[1], cards[2])
}

// AllTriplets enumerates all 324 possible triplets in index order.
func AllTriplets() []Triplet {
	out := make([]Triplet, 0, SuspectCount*WeaponCount*RoomCount)
	for _, s := range OfCategory(Suspect) {
		for _, w := range OfCategory(Weapon) {
			for _, r := range OfCategory(Room) {
				out = append(out, Triplet{s, w, r})
			}
		}
	}
	return out
}
