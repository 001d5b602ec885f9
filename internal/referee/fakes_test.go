package referee

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// The fixed three-player deal used by scripted matches.
var (
	solution = card.MustTriplet(card.MrsWhite, card.Revolver, card.Lounge)
	hands    = [][]card.Card{
		{card.MrGreen, card.ColMustard, card.Candlestick, card.Knife, card.BallRoom, card.BilliardsRoom},
		{card.MrsPeacock, card.ProfPlum, card.LeadPipe, card.Rope, card.Conservatory, card.DiningRoom},
		{card.MissScarlet, card.MonkeyWrench, card.Hall, card.Kitchen, card.Library, card.Study},
	}
)

func fixedDeal(*rand.Rand, int) (card.Triplet, [][]card.Card, error) {
	out := make([][]card.Card, len(hands))
	for i, h := range hands {
		out[i] = append([]card.Card(nil), h...)
	}
	return solution, out, nil
}

// scripted is a Player whose replies are set per test. Unset replies
// fall back to passive play: suggestions always include one of its own
// cards, it never accuses and it disproves honestly.
type scripted struct {
	name string
	hand []card.Card
	next int

	suggest  func(turn int) (card.Triplet, error)
	accuse   func(turn int) (card.Triplet, bool, error)
	disprove func(asker int, t card.Triplet) (card.Card, bool, error)
	resetErr error

	turns       int
	resets      int
	disproves   int
	done        int
	closed      int
	suggestions []game.Suggestion
	accusations []game.Accusation
}

func (s *scripted) Name() string { return s.name }

func (s *scripted) Reset(r game.Reset) error {
	s.resets++
	if s.resetErr != nil {
		return s.resetErr
	}
	s.hand = r.Hand
	s.next = 0
	s.turns = 0
	return nil
}

func (s *scripted) Suggestion(g game.Suggestion) error {
	s.suggestions = append(s.suggestions, g)
	return nil
}

func (s *scripted) Accusation(a game.Accusation) error {
	s.accusations = append(s.accusations, a)
	return nil
}

func (s *scripted) Suggest() (card.Triplet, error) {
	s.turns++
	if s.suggest != nil {
		return s.suggest(s.turns)
	}
	return s.passive(), nil
}

func (s *scripted) Accuse() (card.Triplet, bool, error) {
	if s.accuse != nil {
		return s.accuse(s.turns)
	}
	return card.Triplet{}, false, nil
}

func (s *scripted) Disprove(asker int, t card.Triplet) (card.Card, bool, error) {
	s.disproves++
	if s.disprove != nil {
		return s.disprove(asker, t)
	}
	cands := game.DisproveCards(s.hand, t)
	if len(cands) == 0 {
		return card.Card{}, false, nil
	}
	return cands[0], true, nil
}

func (s *scripted) Done() error {
	s.done++
	return nil
}

func (s *scripted) Close() error {
	s.closed++
	return nil
}

// passive pairs the first card in hand with successive combinations of the
// other two categories.
func (s *scripted) passive() card.Triplet {
	own := s.hand[0]
	var others [][]card.Card
	for _, cat := range card.Categories {
		if cat != own.Category {
			others = append(others, card.OfCategory(cat))
		}
	}
	a := others[0][s.next%len(others[0])]
	b := others[1][(s.next/len(others[0]))%len(others[1])]
	s.next++
	return card.MustTriplet(own, a, b)
}

// accuseOnTurn accuses t on the given turn and passes otherwise.
func accuseOnTurn(turn int, t card.Triplet) func(int) (card.Triplet, bool, error) {
	return func(n int) (card.Triplet, bool, error) {
		if n == turn {
			return t, true, nil
		}
		return card.Triplet{}, false, nil
	}
}

// suggestFirst suggests t on the first turn and plays passively after.
func suggestFirst(s *scripted, t card.Triplet) func(int) (card.Triplet, error) {
	return func(n int) (card.Triplet, error) {
		if n == 1 {
			return t, nil
		}
		return s.passive(), nil
	}
}

func trio() (a, b, c *scripted) {
	return &scripted{name: "alpha"}, &scripted{name: "beta"}, &scripted{name: "gamma"}
}

func players(ps ...*scripted) []Player {
	out := make([]Player, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// capture is a Recorder that keeps everything in memory.
type capture struct {
	deal    Deal
	events  []Event
	result  *Result
	failOn  EventKind
	failErr error
}

func (c *capture) Begin(_ context.Context, d Deal) error {
	c.deal = d
	return nil
}

func (c *capture) Record(_ context.Context, e Event) error {
	if c.failOn != "" && e.Kind == c.failOn {
		return c.failErr
	}
	c.events = append(c.events, e)
	return nil
}

func (c *capture) Finish(_ context.Context, r Result) error {
	c.result = &r
	return nil
}

func (c *capture) ofKind(k EventKind) []Event {
	var out []Event
	for _, e := range c.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

var errBoom = errors.New("boom")

// newScriptedMatch builds a match over the fixed deal.
func newScriptedMatch(t *testing.T, ps []Player, opts ...MatchOption) *Match {
	t.Helper()
	opts = append([]MatchOption{WithLogger(quietLogger())}, opts...)
	m, err := NewMatch(ps, rand.New(rand.NewPCG(1, 2)), opts...)
	require.NoError(t, err)
	m.dealer = fixedDeal
	return m
}
