package agent

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
	"github.com/roach88/speedclue/internal/testutil"
)

func seeded(seed uint64) *rand.Rand {
	return testutil.Rand(seed)
}

func TestRandomPolicy_NotStarted(t *testing.T) {
	p := NewRandomPolicy(seeded(1))
	_, err := p.Next(NewObserver(WithLogger(quietLogger())))
	assert.ErrorIs(t, err, ErrNotReset)
}

func TestRandomPolicy_InformativeAndUnique(t *testing.T) {
	o := NewObserver(WithLogger(quietLogger()))
	require.NoError(t, o.Reset(resetFour()))
	p := NewRandomPolicy(seeded(7))
	p.Reset(4, 0)

	e := o.Engine()
	seen := make(map[card.Triplet]bool)
	for i := 0; i < 100; i++ {
		tr, err := p.Next(o)
		require.NoError(t, err)
		require.True(t, tr.Valid())
		require.False(t, seen[tr], "repeated %s", tr)
		seen[tr] = true

		informative := false
		for _, c := range tr.Cards() {
			if !e.IsFullyDetermined(c) {
				informative = true
			}
		}
		assert.True(t, informative, "%s has no undetermined card", tr)
	}
}

func TestRandomPolicy_Exhausts(t *testing.T) {
	o := NewObserver(WithLogger(quietLogger()))
	require.NoError(t, o.Reset(resetFour()))
	p := NewRandomPolicy(seeded(3))

	seen := make(map[card.Triplet]bool)
	for i := 0; i < len(card.AllTriplets()); i++ {
		tr, err := p.Next(o)
		require.NoError(t, err)
		require.False(t, seen[tr])
		seen[tr] = true
	}
	_, err := p.Next(o)
	assert.ErrorIs(t, err, ErrNoSuggestion)

	p.Reset(4, 0)
	_, err = p.Next(o)
	assert.NoError(t, err)
}

func TestRandomPolicy_Reproducible(t *testing.T) {
	run := func() []card.Triplet {
		o := NewObserver(WithLogger(quietLogger()))
		require.NoError(t, o.Reset(resetFour()))
		p := NewRandomPolicy(seeded(42))
		var out []card.Triplet
		for i := 0; i < 10; i++ {
			tr, err := p.Next(o)
			require.NoError(t, err)
			out = append(out, tr)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestFocusPolicy_StartsAfterSelf(t *testing.T) {
	p := NewFocusPolicy(seeded(1))
	p.Reset(4, 3)
	assert.Equal(t, 0, p.Target())
	p.Reset(4, 1)
	assert.Equal(t, 2, p.Target())
}

func TestFocusPolicy_RotatesPastKnownHand(t *testing.T) {
	o := NewObserver(WithLogger(quietLogger()))
	require.NoError(t, o.Reset(game.Reset{
		PlayerCount: 3,
		Self:        0,
		Hand:        []card.Card{card.MrGreen, card.ColMustard, card.Knife, card.LeadPipe, card.BallRoom, card.Hall},
	}))
	e := o.Engine()

	// Seat 1's whole hand becomes known.
	seat1 := []card.Card{card.MrsPeacock, card.Candlestick, card.Rope, card.Kitchen, card.Library, card.Study}
	for _, c := range seat1 {
		_, err := e.MarkHeld(1, c)
		require.NoError(t, err)
	}
	_, err := e.ProcessInferences()
	require.NoError(t, err)

	// Seat 0 showed MrGreen to seat 2 earlier.
	_, _, err = o.DisproveCard(2, card.MustTriplet(card.MrGreen, card.Rope, card.Lounge))
	require.NoError(t, err)

	p := NewFocusPolicy(seeded(11))
	p.Reset(3, 0)
	for i := 0; i < 30; i++ {
		tr, err := p.Next(o)
		require.NoError(t, err)

		for _, c := range tr.Cards() {
			assert.False(t, containsCard(seat1, c), "%s uses seat 1's %s", tr, c)
			assert.NotEqual(t, card.MrGreen, c, "%s uses a revealed card", tr)
		}
		focused := false
		for _, c := range tr.Cards() {
			if !e.IsFullyDetermined(c) && e.MightHold(2, c) {
				focused = true
			}
		}
		assert.True(t, focused, "%s has nothing seat 2 might hold", tr)
	}

	assert.Equal(t, 2, p.Target())
	for _, c := range seat1 {
		assert.True(t, p.Never(c))
	}
	assert.True(t, p.Never(card.MrGreen))
	assert.False(t, p.Never(card.Knife))
}

func TestFocusPolicy_NeverSuggestsUnaskedDisproof(t *testing.T) {
	o := NewObserver(WithLogger(quietLogger()))
	hand := []card.Card{card.MrGreen, card.MrsPeacock, card.LeadPipe, card.Candlestick, card.MonkeyWrench}
	require.NoError(t, o.Reset(game.Reset{PlayerCount: 4, Self: 1, Hand: hand}))
	require.NoError(t, o.Suggestion(game.Suggestion{
		Suggester: 0,
		Triplet:   card.MustTriplet(card.MrGreen, card.Knife, card.Lounge),
		Disprover: game.Seat(1),
		Shown:     game.Shown(card.MrGreen),
	}))

	p := NewFocusPolicy(seeded(3))
	for i := 0; i < 20; i++ {
		tr, err := p.Next(o)
		require.NoError(t, err)
		assert.False(t, tr.Contains(card.MrGreen), "%s uses a revealed card", tr)
	}
	assert.True(t, p.Never(card.MrGreen))
	assert.False(t, p.Never(card.MrsPeacock))
}

func TestFocusPolicy_StopsAtSelf(t *testing.T) {
	o := NewObserver(WithLogger(quietLogger()))
	require.NoError(t, o.Reset(game.Reset{
		PlayerCount: 3,
		Self:        0,
		Hand:        []card.Card{card.MrGreen, card.ColMustard, card.Knife, card.LeadPipe, card.BallRoom, card.Hall},
	}))
	e := o.Engine()
	for _, c := range []card.Card{card.MrsPeacock, card.Candlestick, card.Rope, card.Kitchen, card.Library, card.Study} {
		_, err := e.MarkHeld(1, c)
		require.NoError(t, err)
	}
	for _, c := range []card.Card{card.ProfPlum, card.MissScarlet, card.MonkeyWrench, card.BilliardsRoom, card.Conservatory, card.DiningRoom} {
		_, err := e.MarkHeld(2, c)
		require.NoError(t, err)
	}
	_, err := e.ProcessInferences()
	require.NoError(t, err)

	murder, ok := e.CandidateMurderSet()
	require.True(t, ok)
	assert.Equal(t, card.MustTriplet(card.MrsWhite, card.Revolver, card.Lounge), murder)

	p := NewFocusPolicy(seeded(5))
	tr, err := p.Next(o)
	require.NoError(t, err)
	assert.True(t, tr.Valid())
	assert.Equal(t, 0, p.Target())
	assert.Empty(t, e.UndeterminedCards())
}
