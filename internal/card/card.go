// Package card defines the closed Speed Clue deck: six suspects, six weapons
// and nine rooms, plus the Triplet used for suggestions, accusations and the
// envelope.
//
// Cards are small comparable values. They can be used as map keys and have a
// dense Index in [0, Count) so that tables keyed by card can be plain arrays.
package card

import (
	"errors"
	"fmt"
	"strings"
)

// Category is one of the three card kinds.
type Category uint8

const (
	// Suspect cards name who committed the murder.
	Suspect Category = iota + 1
	// Weapon cards name what it was committed with.
	Weapon
	// Room cards name where it happened.
	Room
)

// Categories lists every category in deck order.
var Categories = [...]Category{Suspect, Weapon, Room}

// Deck sizes.
const (
	SuspectCount = 6
	WeaponCount  = 6
	RoomCount    = 9

	// Count is the number of cards in the deck.
	Count = SuspectCount + WeaponCount + RoomCount
)

// Size returns how many cards the category holds.
func (c Category) Size() int {
	switch c {
	case Suspect:
		return SuspectCount
	case Weapon:
		return WeaponCount
	case Room:
		return RoomCount
	default:
		return 0
	}
}

// offset is the dense index of the category's first card.
func (c Category) offset() int {
	switch c {
	case Suspect:
		return 0
	case Weapon:
		return SuspectCount
	case Room:
		return SuspectCount + WeaponCount
	default:
		return -1
	}
}

func (c Category) String() string {
	switch c {
	case Suspect:
		return "suspect"
	case Weapon:
		return "weapon"
	case Room:
		return "room"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Card is a single deck card identified by category and a per-category ID.
// The zero Card is invalid and is never part of the deck.
type Card struct {
	Category Category
	ID       uint8
}

// Suspects.
var (
	MrGreen     = Card{Suspect, 0}
	ColMustard  = Card{Suspect, 1}
	MrsPeacock  = Card{Suspect, 2}
	ProfPlum    = Card{Suspect, 3}
	MissScarlet = Card{Suspect, 4}
	MrsWhite    = Card{Suspect, 5}
)

// Weapons.
var (
	Candlestick  = Card{Weapon, 0}
	Knife        = Card{Weapon, 1}
	LeadPipe     = Card{Weapon, 2}
	Revolver     = Card{Weapon, 3}
	Rope         = Card{Weapon, 4}
	MonkeyWrench = Card{Weapon, 5}
)

// Rooms.
var (
	BallRoom      = Card{Room, 0}
	BilliardsRoom = Card{Room, 1}
	Conservatory  = Card{Room, 2}
	DiningRoom    = Card{Room, 3}
	Hall          = Card{Room, 4}
	Kitchen       = Card{Room, 5}
	Library       = Card{Room, 6}
	Lounge        = Card{Room, 7}
	Study         = Card{Room, 8}
)

// info holds the printable forms of a card, indexed by Card.Index.
var info = [Count]struct {
	code string
	name string
}{
	{"Gr", "MrGreen"},
	{"Mu", "ColMustard"},
	{"Pe", "MrsPeacock"},
	{"Pl", "ProfPlum"},
	{"Sc", "MissScarlet"},
	{"Wh", "MrsWhite"},
	{"Ca", "Candlestick"},
	{"Kn", "Knife"},
	{"Pi", "LeadPipe"},
	{"Re", "Revolver"},
	{"Ro", "Rope"},
	{"Wr", "MonkeyWrench"},
	{"Ba", "BallRoom"},
	{"Bi", "BilliardsRoom"},
	{"Co", "Conservatory"},
	{"Di", "DiningRoom"},
	{"Ha", "Hall"},
	{"Ki", "Kitchen"},
	{"Li", "Library"},
	{"Lo", "Lounge"},
	{"St", "Study"},
}

// ErrUnknownCard is returned when a code or name does not match any card.
var ErrUnknownCard = errors.New("unknown card")

// Valid reports whether c is one of the 21 deck cards.
func (c Card) Valid() bool {
	return c.Category.offset() >= 0 && int(c.ID) < c.Category.Size()
}

// Index returns the dense deck position of c: suspects first, then weapons,
// then rooms. Returns -1 for an invalid card.
func (c Card) Index() int {
	if !c.Valid() {
		return -1
	}
	return c.Category.offset() + int(c.ID)
}

// FromIndex is the inverse of Index. It panics when i is out of range.
func FromIndex(i int) Card {
	switch {
	case i < 0 || i >= Count:
		panic(fmt.Sprintf("card: index %d out of range", i))
	case i < SuspectCount:
		return Card{Suspect, uint8(i)}
	case i < SuspectCount+WeaponCount:
		return Card{Weapon, uint8(i - SuspectCount)}
	default:
		return Card{Room, uint8(i - SuspectCount - WeaponCount)}
	}
}

// Code returns the two-letter wire code, e.g. "Pl" for ProfPlum.
func (c Card) Code() string {
	if !c.Valid() {
		return "??"
	}
	return info[c.Index()].code
}

// Name returns the long name, e.g. "ProfPlum".
func (c Card) Name() string {
	if !c.Valid() {
		return fmt.Sprintf("invalid(%d,%d)", uint8(c.Category), c.ID)
	}
	return info[c.Index()].name
}

func (c Card) String() string {
	return c.Name()
}

// All returns the full deck in index order. The slice is freshly allocated.
func All() []Card {
	cards := make([]Card, Count)
	for i := range cards {
		cards[i] = FromIndex(i)
	}
	return cards
}

// OfCategory returns every card of cat in ID order.
func OfCategory(cat Category) []Card {
	cards := make([]Card, cat.Size())
	for i := range cards {
		cards[i] = Card{cat, uint8(i)}
	}
	return cards
}

// ParseCode resolves a two-letter wire code. Matching is case-insensitive.
func ParseCode(code string) (Card, error) {
	for i := range info {
		if strings.EqualFold(info[i].code, code) {
			return FromIndex(i), nil
		}
	}
	return Card{}, fmt.Errorf("%w: code %q", ErrUnknownCard, code)
}

// Parse resolves either a wire code or a long name such as "MissScarlet".
func Parse(s string) (Card, error) {
	if c, err := ParseCode(s); err == nil {
		return c, nil
	}
	for i := range info {
		if strings.EqualFold(info[i].name, s) {
			return FromIndex(i), nil
		}
	}
	return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, s)
}
