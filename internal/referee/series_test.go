package referee

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/speedclue/internal/agent"
)

func TestSeries_RotatesSeats(t *testing.T) {
	a, b, c := trio()
	s := NewSeries(players(a, b, c), 3, rand.New(rand.NewPCG(1, 2)), quietLogger(), WithMaxRounds(1))

	results, standings, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, results[0].Names)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, results[1].Names)
	assert.Equal(t, []string{"gamma", "alpha", "beta"}, results[2].Names)

	for _, st := range standings {
		assert.Equal(t, 3, st.Games, st.Name)
		assert.Zero(t, st.Wins)
	}
	for _, p := range []*scripted{a, b, c} {
		assert.Equal(t, 3, p.resets)
		assert.Equal(t, 1, p.done)
		assert.Zero(t, p.closed)
	}
}

func TestSeries_DisqualifiedPlayerSitsOut(t *testing.T) {
	a, b, c := trio()
	b.resetErr = errBoom
	s := NewSeries(players(a, b, c), 3, rand.New(rand.NewPCG(1, 2)), quietLogger(), WithMaxRounds(1))

	results, standings, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Len(t, results[0].Violations, 1)
	assert.Empty(t, results[1].Violations)
	assert.Empty(t, results[2].Violations)
	assert.Equal(t, 1, b.resets)

	byName := make(map[string]Standing)
	for _, st := range standings {
		byName[st.Name] = st
	}
	assert.True(t, byName["beta"].Disqualified)
	assert.Equal(t, 1, byName["beta"].Games)
	assert.Equal(t, 3, byName["alpha"].Games)

	assert.Zero(t, b.done)
	assert.Equal(t, 1, b.closed)
	assert.Equal(t, 1, a.done)
	assert.Equal(t, 1, c.done)
}

func TestSeries_StandingsOrderedByWins(t *testing.T) {
	rng := func(n uint64) *rand.Rand { return rand.New(rand.NewPCG(7, n)) }
	ps := []Player{
		NewLocal("one", agent.NewDeducer(agent.NewFocusPolicy(rng(1)), agent.WithLogger(quietLogger()))),
		NewLocal("two", agent.NewDeducer(agent.NewFocusPolicy(rng(2)), agent.WithLogger(quietLogger()))),
		NewLocal("three", agent.NewDeducer(agent.NewRandomPolicy(rng(3)), agent.WithLogger(quietLogger()))),
	}
	results, standings, err := NewSeries(ps, 4, rng(4), quietLogger()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	total := 0
	for i, st := range standings {
		total += st.Wins
		assert.Equal(t, 4, st.Games)
		assert.False(t, st.Disqualified)
		if i > 0 {
			assert.GreaterOrEqual(t, standings[i-1].Wins, st.Wins)
		}
	}
	assert.Equal(t, 4, total)
}
