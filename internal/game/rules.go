// Package game holds the Speed Clue table rules shared by the referee and the
// agents: seat bounds, the hand-size split, dealing, the disprove rotation,
// and the parsed event shapes delivered to agents.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/roach88/speedclue/internal/card"
)

// Seat bounds for a match.
const (
	MinPlayers = 3
	MaxPlayers = 6
)

// DealtCards is the number of cards dealt to players; the other three go
// into the envelope.
const DealtCards = card.Count - 3

// ValidatePlayerCount checks n against MinPlayers and MaxPlayers.
func ValidatePlayerCount(n int) error {
	if n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("player count %d outside [%d, %d]", n, MinPlayers, MaxPlayers)
	}
	return nil
}

// HandSize returns how many cards the given seat is dealt. The 18 dealt
// cards are split evenly and the remainder goes one each to the
// lowest-numbered seats.
func HandSize(players, seat int) int {
	base := DealtCards / players
	if seat < DealtCards%players {
		return base + 1
	}
	return base
}

// HandSizes returns HandSize for every seat.
func HandSizes(players int) []int {
	sizes := make([]int, players)
	for i := range sizes {
		sizes[i] = HandSize(players, i)
	}
	return sizes
}

// NextSeat returns the seat after seat in play order.
func NextSeat(players, seat int) int {
	return (seat + 1) % players
}

// NonDisprovers returns the seats that were asked, in rotation order, and
// could not disprove a suggestion. The rotation starts after the suggester
// and stops at the disprover, or wraps back to the suggester when nobody
// could disprove.
func NonDisprovers(players, suggester int, disprover *int) []int {
	var out []int
	for s := NextSeat(players, suggester); s != suggester; s = NextSeat(players, s) {
		if disprover != nil && s == *disprover {
			break
		}
		out = append(out, s)
	}
	return out
}

// Deal picks a random solution and deals the remaining cards into hands
// sized by HandSize. The random source is supplied by the caller so that
// matches can be replayed from a seed.
func Deal(rng *rand.Rand, players int) (card.Triplet, [][]card.Card, error) {
	if err := ValidatePlayerCount(players); err != nil {
		return card.Triplet{}, nil, err
	}

	suspects := card.OfCategory(card.Suspect)
	weapons := card.OfCategory(card.Weapon)
	rooms := card.OfCategory(card.Room)
	solution := card.Triplet{
		Suspect: suspects[rng.IntN(len(suspects))],
		Weapon:  weapons[rng.IntN(len(weapons))],
		Room:    rooms[rng.IntN(len(rooms))],
	}

	deck := make([]card.Card, 0, DealtCards)
	for _, c := range card.All() {
		if !solution.Contains(c) {
			deck = append(deck, c)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	hands := make([][]card.Card, players)
	dealt := 0
	for seat := range hands {
		n := HandSize(players, seat)
		hands[seat] = append([]card.Card(nil), deck[dealt:dealt+n]...)
		dealt += n
	}
	return solution, hands, nil
}

// DisproveCards returns the cards of hand that appear in t.
func DisproveCards(hand []card.Card, t card.Triplet) []card.Card {
	var out []card.Card
	for _, c := range hand {
		if t.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}
