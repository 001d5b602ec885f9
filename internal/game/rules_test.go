package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/speedclue/internal/card"
)

func TestHandSizes(t *testing.T) {
	tests := []struct {
		players int
		want    []int
	}{
		{3, []int{6, 6, 6}},
		{4, []int{5, 5, 4, 4}},
		{5, []int{4, 4, 4, 3, 3}},
		{6, []int{3, 3, 3, 3, 3, 3}},
	}
	for _, tt := range tests {
		got := HandSizes(tt.players)
		assert.Equal(t, tt.want, got, "players=%d", tt.players)

		sum := 0
		for _, n := range got {
			sum += n
		}
		assert.Equal(t, DealtCards, sum)
	}
}

func TestValidatePlayerCount(t *testing.T) {
	assert.Error(t, ValidatePlayerCount(2))
	assert.NoError(t, ValidatePlayerCount(3))
	assert.NoError(t, ValidatePlayerCount(6))
	assert.Error(t, ValidatePlayerCount(7))
}

func TestNonDisprovers(t *testing.T) {
	// Nobody disproved: everyone but the suggester passed.
	assert.Equal(t, []int{2, 3, 0}, NonDisprovers(4, 1, nil))

	// Disproved by the very next seat: nobody skipped.
	assert.Empty(t, NonDisprovers(4, 1, Seat(2)))

	// Rotation wraps past the last seat.
	assert.Equal(t, []int{3, 0}, NonDisprovers(4, 2, Seat(1)))
}

func TestDealIsCompleteAndDisjoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for players := MinPlayers; players <= MaxPlayers; players++ {
		solution, hands, err := Deal(rng, players)
		require.NoError(t, err)
		require.True(t, solution.Valid())
		require.Len(t, hands, players)

		seen := map[card.Card]bool{}
		for _, c := range solution.Cards() {
			seen[c] = true
		}
		for seat, hand := range hands {
			assert.Len(t, hand, HandSize(players, seat))
			for _, c := range hand {
				assert.False(t, seen[c], "card %s dealt twice", c)
				seen[c] = true
			}
		}
		assert.Len(t, seen, card.Count)
	}
}

func TestDealIsReproducible(t *testing.T) {
	s1, h1, err := Deal(rand.New(rand.NewPCG(7, 7)), 4)
	require.NoError(t, err)
	s2, h2, err := Deal(rand.New(rand.NewPCG(7, 7)), 4)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, h1, h2)
}

func TestDealRejectsBadPlayerCount(t *testing.T) {
	_, _, err := Deal(rand.New(rand.NewPCG(1, 1)), 2)
	assert.Error(t, err)
}

func TestDisproveCards(t *testing.T) {
	hand := []card.Card{card.MrGreen, card.Knife, card.Hall}
	tr := card.MustTriplet(card.MrGreen, card.Rope, card.Hall)
	assert.Equal(t, []card.Card{card.MrGreen, card.Hall}, DisproveCards(hand, tr))
	assert.Empty(t, DisproveCards(hand, card.MustTriplet(card.ProfPlum, card.Rope, card.Study)))
}
