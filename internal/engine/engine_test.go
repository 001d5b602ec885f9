package engine

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, players int, opts ...Option) *Engine {
	t.Helper()
	e, err := New(players, append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	return e
}

func markHand(t *testing.T, e *Engine, seat int, hand []card.Card) {
	t.Helper()
	for _, c := range hand {
		_, err := e.MarkHeld(Holder(seat), c)
		require.NoError(t, err)
	}
}

func TestNew_RejectsPlayerCount(t *testing.T) {
	for _, n := range []int{0, 2, 7} {
		_, err := New(n)
		assert.Error(t, err, "players=%d", n)
	}
}

func TestNew_InstallsQuotas(t *testing.T) {
	e := newTestEngine(t, 4)
	quotas := e.Quotas()
	require.Len(t, quotas, 3+4)

	for i, cat := range card.Categories {
		assert.Equal(t, e.Envelope(), quotas[i].Holder)
		assert.Equal(t, 1, quotas[i].Count)
		assert.Equal(t, card.OfCategory(cat), quotas[i].Cards)
	}
	for seat, want := range []int{5, 5, 4, 4} {
		q := quotas[3+seat]
		assert.Equal(t, Holder(seat), q.Holder)
		assert.Equal(t, want, q.Count)
		assert.Len(t, q.Cards, card.Count)
		assert.Equal(t, want, e.HandSize(seat))
	}
}

// Seat 0 of four holds five cards and suggests three it does not hold.
// Nobody disproves, so the three cards are in the envelope.
func TestScenario_UndisprovedSuggestionRevealsMurder(t *testing.T) {
	e := newTestEngine(t, 4)
	hand := []card.Card{card.MrGreen, card.MrsPeacock, card.LeadPipe, card.Candlestick, card.MonkeyWrench}
	markHand(t, e, 0, hand)

	suggested := card.MustTriplet(card.ProfPlum, card.Knife, card.Lounge)
	for _, seat := range game.NonDisprovers(4, 0, nil) {
		for _, c := range suggested.Cards() {
			_, err := e.MarkExcluded(Holder(seat), c)
			require.NoError(t, err)
		}
	}

	_, err := e.ProcessInferences()
	require.NoError(t, err)

	murder, ok := e.CandidateMurderSet()
	require.True(t, ok)
	assert.Equal(t, suggested, murder)

	known, ok := e.FullyKnownHand(0)
	require.True(t, ok)
	assert.Equal(t, []card.Card{card.MrGreen, card.MrsPeacock, card.Candlestick, card.LeadPipe, card.MonkeyWrench}, known)

	assert.Equal(t, []card.Card{card.ProfPlum}, e.EnvelopeCandidates(card.Suspect))
	assert.Len(t, e.UndeterminedCards(), card.Count-len(hand)-3)
	assert.Contains(t, e.Snapshot().Format(), "murder: {ProfPlum, Knife, Lounge}\n")
}

// Seat 2 showed an unseen card for a triplet; two of its cards are later
// ruled out for seat 2, which leaves the third.
func TestScenario_AtLeastOneOfResolves(t *testing.T) {
	e := newTestEngine(t, 3)
	suggested := card.MustTriplet(card.MissScarlet, card.Rope, card.Conservatory)

	require.NoError(t, e.AddAtLeastOneOf(2, suggested))
	stats, err := e.ProcessInferences()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)

	_, err = e.MarkExcluded(2, card.MissScarlet)
	require.NoError(t, err)
	_, err = e.MarkExcluded(2, card.Rope)
	require.NoError(t, err)

	stats, err = e.ProcessInferences()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Retired)
	assert.Zero(t, stats.Pending)
	assert.True(t, e.IsHeldBy(2, card.Conservatory))
	assert.Empty(t, e.PendingConstraints())
}

func TestScenario_LostAccusation(t *testing.T) {
	e := newTestEngine(t, 3)
	wrong := card.MustTriplet(card.ColMustard, card.Revolver, card.Study)
	require.NoError(t, e.AddNotAllThree(e.Envelope(), wrong))

	_, err := e.MarkHeld(e.Envelope(), card.ColMustard)
	require.NoError(t, err)
	_, err = e.MarkHeld(e.Envelope(), card.Revolver)
	require.NoError(t, err)

	_, err = e.ProcessInferences()
	require.NoError(t, err)
	assert.False(t, e.MightHold(e.Envelope(), card.Study))
}

func TestAddConstraint_Duplicate(t *testing.T) {
	e := newTestEngine(t, 3)
	tr := card.MustTriplet(card.MrGreen, card.Knife, card.Hall)
	require.NoError(t, e.AddAtLeastOneOf(1, tr))
	require.NoError(t, e.AddAtLeastOneOf(1, tr))
	assert.Len(t, e.PendingConstraints(), 1)
}

func TestAddConstraint_MalformedTriplet(t *testing.T) {
	e := newTestEngine(t, 3)
	bad := card.Triplet{Suspect: card.MrGreen, Weapon: card.Hall, Room: card.Knife}
	assert.Error(t, e.AddAtLeastOneOf(1, bad))
	assert.NoError(t, e.Err())
}

func TestInvalidHolder(t *testing.T) {
	e := newTestEngine(t, 3)
	_, err := e.MarkHeld(Holder(9), card.Knife)
	assert.True(t, errors.Is(err, ErrInvalidHolder))
	assert.EqualError(t, err, "engine: invalid holder: 9")
	_, err = e.MarkExcluded(Holder(-1), card.Knife)
	assert.True(t, errors.Is(err, ErrInvalidHolder))

	// Bad input does not poison the engine.
	assert.NoError(t, e.Err())
}

func TestContradiction_IsSticky(t *testing.T) {
	e := newTestEngine(t, 3)
	_, err := e.MarkHeld(0, card.Knife)
	require.NoError(t, err)

	_, err = e.MarkHeld(1, card.Knife)
	require.Error(t, err)
	assert.True(t, IsContradiction(err))

	var ce *ContradictionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeContradiction, ce.Code())
	assert.Equal(t, Holder(1), ce.Holder)
	assert.Equal(t, card.Knife, ce.Card)

	_, err = e.ProcessInferences()
	assert.Same(t, ce, err)
	_, err = e.MarkExcluded(2, card.Rope)
	assert.Same(t, ce, err)
	assert.Same(t, ce, e.Err())
}

func TestContradiction_FromFixpoint(t *testing.T) {
	e := newTestEngine(t, 3)
	// Seat 0 holds six cards; a seventh overflows its quota.
	for _, c := range card.OfCategory(card.Weapon) {
		_, err := e.MarkHeld(0, c)
		require.NoError(t, err)
	}
	_, err := e.MarkHeld(0, card.Hall)
	require.NoError(t, err)

	_, err = e.ProcessInferences()
	require.Error(t, err)
	assert.True(t, IsContradiction(err))
	assert.Contains(t, err.Error(), "CONTRADICTION")
}

func TestProcessInferences_PassLimit(t *testing.T) {
	e := newTestEngine(t, 4, WithMaxPasses(1))
	markHand(t, e, 0, []card.Card{card.MrGreen, card.MrsPeacock, card.LeadPipe, card.Candlestick, card.MonkeyWrench})

	_, err := e.ProcessInferences()
	require.Error(t, err)
	assert.True(t, IsPassLimit(err))

	var pe *PassLimitError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Limit)
	assert.Equal(t, ErrCodePassLimit, pe.Code())
	assert.Equal(t, err, e.Err())
}

func TestProcessInferences_FixpointIsStable(t *testing.T) {
	e := newTestEngine(t, 4)
	markHand(t, e, 1, []card.Card{card.Rope, card.Study, card.MrsWhite, card.Hall, card.Knife})
	require.NoError(t, e.AddAtLeastOneOf(2, card.MustTriplet(card.MrGreen, card.Revolver, card.Kitchen)))
	require.NoError(t, e.AddNotAllThree(e.Envelope(), card.MustTriplet(card.ProfPlum, card.Candlestick, card.Library)))

	_, err := e.ProcessInferences()
	require.NoError(t, err)
	before := e.Snapshot()

	stats, err := e.ProcessInferences()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Passes)
	assert.Zero(t, stats.Retired)
	assert.Equal(t, before, e.Snapshot())
}

func TestSnapshot_Format(t *testing.T) {
	e := newTestEngine(t, 3)
	_, err := e.MarkHeld(0, card.MrGreen)
	require.NoError(t, err)
	require.NoError(t, e.AddAtLeastOneOf(2, card.MustTriplet(card.ProfPlum, card.Knife, card.Lounge)))

	out := e.Snapshot().Format()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 1+card.Count+2+1)
	assert.Equal(t, "players: 3", lines[0])
	assert.Equal(t, "MrGreen: P0", lines[1])
	assert.Equal(t, "ColMustard: P0 P1 P2 E", lines[2])
	assert.Equal(t, "pending:", lines[22])
	assert.Equal(t, "  AtLeastOneOf P2 {ProfPlum, Knife, Lounge}", lines[23])
	assert.Equal(t, "murder: none", lines[24])
}

// simulate plays a truthful random game from one seat's point of view and
// checks after every event that the engine never rules out a true holder
// and never exceeds a quota.
func simulate(t *testing.T, seed uint64, players, self, turns int) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed*31+7))
	solution, hands, err := game.Deal(rng, players)
	require.NoError(t, err)

	e := newTestEngine(t, players)
	owner := make(map[card.Card]Holder, card.Count)
	for seat, hand := range hands {
		for _, c := range hand {
			owner[c] = Holder(seat)
		}
	}
	for _, c := range solution.Cards() {
		owner[c] = e.Envelope()
	}

	markHand(t, e, self, hands[self])
	_, err = e.ProcessInferences()
	require.NoError(t, err)

	triplets := card.AllTriplets()
	for turn := 0; turn < turns; turn++ {
		suggester := rng.IntN(players)
		suggested := triplets[rng.IntN(len(triplets))]

		var disprover *int
		var shown card.Card
		for s := game.NextSeat(players, suggester); s != suggester; s = game.NextSeat(players, s) {
			if cards := game.DisproveCards(hands[s], suggested); len(cards) > 0 {
				disprover = game.Seat(s)
				shown = cards[rng.IntN(len(cards))]
				break
			}
		}

		for _, seat := range game.NonDisprovers(players, suggester, disprover) {
			for _, c := range suggested.Cards() {
				_, err := e.MarkExcluded(Holder(seat), c)
				require.NoError(t, err)
			}
		}
		if disprover != nil {
			if suggester == self || *disprover == self {
				_, err := e.MarkHeld(Holder(*disprover), shown)
				require.NoError(t, err)
			} else {
				require.NoError(t, e.AddAtLeastOneOf(Holder(*disprover), suggested))
			}
		}
		if suggested != solution && rng.IntN(4) == 0 {
			require.NoError(t, e.AddNotAllThree(e.Envelope(), suggested))
		}

		_, err := e.ProcessInferences()
		require.NoError(t, err, "seed=%d turn=%d", seed, turn)

		for _, c := range card.All() {
			require.True(t, e.MightHold(owner[c], c), "seed=%d turn=%d: true holder of %s ruled out", seed, turn, c)
		}
		for seat := 0; seat < players; seat++ {
			held := 0
			for _, c := range card.All() {
				if e.IsHeldBy(Holder(seat), c) {
					held++
				}
			}
			require.LessOrEqual(t, held, e.HandSize(seat))
		}
		for _, cat := range card.Categories {
			inEnvelope := 0
			for _, c := range card.OfCategory(cat) {
				if e.IsHeldBy(e.Envelope(), c) {
					inEnvelope++
				}
			}
			require.LessOrEqual(t, inEnvelope, 1)
		}
		if murder, ok := e.CandidateMurderSet(); ok {
			require.Equal(t, solution, murder)
		}
	}

	before := e.Snapshot()
	stats, err := e.ProcessInferences()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Passes)
	assert.Equal(t, before, e.Snapshot())
}

func TestProcessInferences_SoundOnTruthfulGames(t *testing.T) {
	for players := game.MinPlayers; players <= game.MaxPlayers; players++ {
		for seed := uint64(1); seed <= 8; seed++ {
			simulate(t, seed, players, int(seed)%players, 40)
		}
	}
}
