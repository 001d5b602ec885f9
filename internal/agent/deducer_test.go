package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

var (
	_ Agent = (*Deducer)(nil)
	_ Agent = (*Random)(nil)
)

func TestDeducer_BeforeReset(t *testing.T) {
	d := NewDeducer(NewRandomPolicy(seeded(1)), WithLogger(quietLogger()))

	_, _, err := d.Accuse()
	assert.ErrorIs(t, err, ErrNotReset)
	_, err = d.Suggest()
	assert.ErrorIs(t, err, ErrNotReset)
	_, _, err = d.Disprove(1, card.MustTriplet(card.MrGreen, card.Knife, card.Hall))
	assert.ErrorIs(t, err, ErrNotReset)
}

func TestDeducer_AccusesOnceDetermined(t *testing.T) {
	d := NewDeducer(NewFocusPolicy(seeded(2)), WithLogger(quietLogger()))
	require.NoError(t, d.Reset(resetFour()))

	_, ok, err := d.Accuse()
	require.NoError(t, err)
	assert.False(t, ok)

	suggested := card.MustTriplet(card.ProfPlum, card.Knife, card.Lounge)
	require.NoError(t, d.Suggestion(game.Suggestion{Suggester: 0, Triplet: suggested}))

	accused, ok, err := d.Accuse()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, suggested, accused)
}

func TestDeducer_SuggestNeverRepeats(t *testing.T) {
	d := NewDeducer(NewFocusPolicy(seeded(9)), WithLogger(quietLogger()))
	require.NoError(t, d.Reset(resetFour()))

	seen := make(map[card.Triplet]bool)
	for i := 0; i < 50; i++ {
		tr, err := d.Suggest()
		require.NoError(t, err)
		require.False(t, seen[tr])
		seen[tr] = true
	}
}

func TestDeducer_Disprove(t *testing.T) {
	d := NewDeducer(NewRandomPolicy(seeded(1)), WithLogger(quietLogger()))
	require.NoError(t, d.Reset(resetFour()))

	c, ok, err := d.Disprove(2, card.MustTriplet(card.MrsPeacock, card.Rope, card.Hall))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, card.MrsPeacock, c)

	_, ok, err = d.Disprove(2, card.MustTriplet(card.ProfPlum, card.Rope, card.Hall))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeducer_ContradictionBlocksAccusation(t *testing.T) {
	d := NewDeducer(NewRandomPolicy(seeded(1)), WithLogger(quietLogger()))
	require.NoError(t, d.Reset(resetFour()))

	err := d.Suggestion(game.Suggestion{
		Suggester: 0,
		Triplet:   card.MustTriplet(card.MrGreen, card.Knife, card.Lounge),
		Disprover: game.Seat(1),
		Shown:     game.Shown(card.MrGreen),
	})
	require.Error(t, err)

	_, ok, err := d.Accuse()
	assert.Error(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Reset(resetFour()))
	_, _, err = d.Accuse()
	assert.NoError(t, err)
}

// Two deducers in a three-seat game, driven by a truthful referee loop,
// must never accuse wrongly.
func TestDeducer_NeverAccusesWrongly(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		rng := seeded(seed)
		solution, hands, err := game.Deal(rng, 3)
		require.NoError(t, err)

		seats := make([]*Deducer, 3)
		for i := range seats {
			seats[i] = NewDeducer(NewFocusPolicy(seeded(seed*10+uint64(i))), WithLogger(quietLogger()))
			require.NoError(t, seats[i].Reset(game.Reset{PlayerCount: 3, Self: i, Hand: hands[i]}))
		}

		solved := false
		for turn := 0; turn < 200 && !solved; turn++ {
			active := turn % 3
			tr, err := seats[active].Suggest()
			require.NoError(t, err)

			var disprover *int
			var shown card.Card
			for s := game.NextSeat(3, active); s != active; s = game.NextSeat(3, s) {
				c, ok, err := seats[s].Disprove(active, tr)
				require.NoError(t, err)
				if ok {
					require.True(t, tr.Contains(c))
					disprover, shown = game.Seat(s), c
					break
				}
			}
			for i, d := range seats {
				ev := game.Suggestion{Suggester: active, Triplet: tr, Disprover: disprover}
				if disprover != nil && (i == active || i == *disprover) {
					ev.Shown = game.Shown(shown)
				}
				require.NoError(t, d.Suggestion(ev), "seed=%d turn=%d seat=%d", seed, turn, i)
			}

			accused, ok, err := seats[active].Accuse()
			require.NoError(t, err)
			if ok {
				require.Equal(t, solution, accused, "seed=%d turn=%d", seed, turn)
				solved = true
			}
		}
		assert.True(t, solved, "seed=%d: nobody solved the game", seed)
	}
}
