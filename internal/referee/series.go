package referee

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
)

// Standing is one player's record over a series.
type Standing struct {
	Name         string
	Games        int
	Wins         int
	Disqualified bool
}

// Series plays several matches with the same players, rotating the seats
// so that each player moves first in turn. A player disqualified in one
// match sits out every later one.
type Series struct {
	players []Player
	games   int
	rng     *rand.Rand
	logger  *slog.Logger
	opts    []MatchOption
}

// NewSeries creates a series of games matches. opts apply to every match.
func NewSeries(players []Player, games int, rng *rand.Rand, logger *slog.Logger, opts ...MatchOption) *Series {
	if logger == nil {
		logger = slog.Default()
	}
	return &Series{players: players, games: games, rng: rng, logger: logger, opts: opts}
}

// Run plays the series and then ends every session. Standings are sorted
// by wins, then name.
func (s *Series) Run(ctx context.Context) ([]Result, []Standing, error) {
	n := len(s.players)
	table := make(map[string]*Standing, n)
	for _, p := range s.players {
		table[p.Name()] = &Standing{Name: p.Name()}
	}

	var results []Result
	for g := 0; g < s.games; g++ {
		seated := make([]Player, n)
		var banned []int
		for i := range seated {
			seated[i] = s.players[(i+g)%n]
			if table[seated[i].Name()].Disqualified {
				banned = append(banned, i)
			}
		}

		opts := append([]MatchOption{WithLogger(s.logger), WithBanned(banned...)}, s.opts...)
		m, err := NewMatch(seated, s.rng, opts...)
		if err != nil {
			return results, nil, err
		}
		res, err := m.Play(ctx)
		if err != nil {
			return results, nil, err
		}
		results = append(results, res)

		for i, pl := range seated {
			if !isBanned(banned, i) {
				table[pl.Name()].Games++
			}
		}
		if w := res.WinnerName(); w != "" {
			table[w].Wins++
		}
		for _, v := range res.Violations {
			table[v.Player].Disqualified = true
		}
		s.logger.Info("game finished", "game", g+1, "of", s.games, "winner", res.WinnerName())
	}

	for _, p := range s.players {
		if table[p.Name()].Disqualified {
			if c, ok := p.(io.Closer); ok {
				c.Close()
			}
			continue
		}
		if err := p.Done(); err != nil {
			s.logger.Warn("ending session failed", "player", p.Name(), "error", err)
		}
	}

	standings := make([]Standing, 0, n)
	for _, st := range table {
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].Name < standings[j].Name
	})
	return results, standings, nil
}

func isBanned(banned []int, seat int) bool {
	for _, b := range banned {
		if b == seat {
			return true
		}
	}
	return false
}
