package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/spf13/cobra"

	"github.com/roach88/speedclue/internal/config"
	"github.com/roach88/speedclue/internal/referee"
	"github.com/roach88/speedclue/internal/store"
	"github.com/roach88/speedclue/internal/transport"
)

// anyAgent stands for an unnamed remote seat in --remote.
const anyAgent = "-"

// RefereeOptions holds flags for the referee command.
type RefereeOptions struct {
	*RootOptions
	ConfigPath string
	Bots       []string
	Remotes    []string
}

// MatchLine summarises one played match.
type MatchLine struct {
	ID         string `json:"id,omitempty"`
	Winner     string `json:"winner"`
	ByDefault  bool   `json:"by_default"`
	Rounds     int    `json:"rounds"`
	Solution   string `json:"solution"`
	Violations int    `json:"violations"`
}

// StandingLine is one player's record in the series.
type StandingLine struct {
	Name         string `json:"name"`
	Games        int    `json:"games"`
	Wins         int    `json:"wins"`
	Disqualified bool   `json:"disqualified"`
}

// SeriesResult is the referee command's output.
type SeriesResult struct {
	Matches   []MatchLine    `json:"matches"`
	Standings []StandingLine `json:"standings"`
}

// NewRefereeCommand creates the referee command.
func NewRefereeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RefereeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "referee",
		Short: "Deal and adjudicate a series of matches",
		Long: `Run a series of matches between remote agents and built-in bots.

Settings come from a CUE file (--config), then SPEEDCLUE_* environment
variables (a .env file in the working directory is loaded first), then
flags. --bot and --remote replace the configured seats.

Exit codes:
  0 - The series was played
  1 - The series was interrupted
  2 - Command error (bad config, listener or database failure)

Examples:
  speedclue referee --config referee.cue
  speedclue referee --bot focus --bot deducer --bot random --games 100 --db ""
  speedclue referee --remote alice --remote - --bot focus --listen :7777`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReferee(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "CUE configuration file")
	cmd.Flags().StringArrayVar(&opts.Bots, "bot", nil, fmt.Sprintf("add a built-in bot seat, one of %v", config.BotKinds))
	cmd.Flags().StringArrayVar(&opts.Remotes, "remote", nil, `add a remote seat for the named agent ("-" for any)`)
	cmd.Flags().String("listen", "", "address to accept agents on")
	cmd.Flags().Int("games", 0, "number of matches")
	cmd.Flags().Uint64("seed", 0, "random seed for deals and bots")
	cmd.Flags().Duration("timeout", 0, "per-message reply deadline")
	cmd.Flags().String("db", "", `match log database ("" disables logging)`)
	cmd.Flags().Int("max-rounds", 0, "stop a match after this many rounds (0 = referee default)")

	return cmd
}

func runReferee(opts *RefereeOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger()
	ctx := cmd.Context()

	cfg, err := refereeConfig(opts, cmd)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err, nil)
	}

	var recorder *collector
	if cfg.DB != "" {
		st, err := store.Open(cfg.DB)
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err, nil)
		}
		defer st.Close()
		recorder = &collector{log: st.NewMatchLog(nil)}
	}

	var remotes []*transport.RemotePlayer
	if n := cfg.RemoteSeats(); n > 0 {
		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeNetwork, "failed to listen", err, nil)
		}
		logger.Info("waiting for agents", "addr", ln.Addr().String(), "want", n)
		remotes, err = transport.Accept(ctx, ln, n, cfg.Timeout, logger)
		ln.Close()
		if err != nil {
			return out.Fail(ExitFailure, ErrCodeNetwork, "agents did not join", err, nil)
		}
	}

	players, err := seatPlayers(cfg, remotes, logger)
	if err != nil {
		closeAll(remotes)
		return out.Fail(ExitCommandError, ErrCodeConfig, "cannot seat players", err, nil)
	}

	var matchOpts []referee.MatchOption
	if cfg.MaxRounds > 0 {
		matchOpts = append(matchOpts, referee.WithMaxRounds(cfg.MaxRounds))
	}
	if recorder != nil {
		matchOpts = append(matchOpts, referee.WithRecorder(recorder))
	}
	series := referee.NewSeries(players, cfg.Games, newRand(cfg.Seed, 0), logger, matchOpts...)
	results, standings, err := series.Run(ctx)

	res := SeriesResult{Matches: []MatchLine{}, Standings: []StandingLine{}}
	for i, r := range results {
		line := MatchLine{
			Winner:     r.WinnerName(),
			ByDefault:  r.ByDefault,
			Rounds:     r.Rounds,
			Solution:   r.Solution.Codes(),
			Violations: len(r.Violations),
		}
		if recorder != nil && i < len(recorder.ids) {
			line.ID = recorder.ids[i]
		}
		res.Matches = append(res.Matches, line)
	}
	for _, s := range standings {
		res.Standings = append(res.Standings, StandingLine(s))
	}

	if err != nil {
		closeAll(remotes)
		return out.Fail(ExitFailure, ErrCodeMatch, fmt.Sprintf("series stopped after %d matches", len(results)), err, res)
	}
	return out.Emit(res, func(w io.Writer) { writeSeries(w, res) })
}

// refereeConfig layers the config file, the environment and the flags.
func refereeConfig(opts *RefereeOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen, _ = flags.GetString("listen")
	}
	if flags.Changed("games") {
		cfg.Games, _ = flags.GetInt("games")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("db") {
		cfg.DB, _ = flags.GetString("db")
	}
	if flags.Changed("max-rounds") {
		cfg.MaxRounds, _ = flags.GetInt("max-rounds")
	}

	if len(opts.Bots)+len(opts.Remotes) > 0 {
		cfg.Seats = nil
		for _, name := range opts.Remotes {
			if name == anyAgent {
				name = ""
			}
			cfg.Seats = append(cfg.Seats, config.Seat{Name: name})
		}
		for _, kind := range opts.Bots {
			cfg.Seats = append(cfg.Seats, config.Seat{Bot: kind})
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// seatPlayers fills the configured seats. Named remote seats take the agent
// that announced that name; unnamed ones take the rest in connection order.
// Unnamed bots are called kind-seat.
func seatPlayers(cfg *config.Config, remotes []*transport.RemotePlayer, logger *slog.Logger) ([]referee.Player, error) {
	players := make([]referee.Player, len(cfg.Seats))
	claimed := make([]bool, len(remotes))

	for i, seat := range cfg.Seats {
		switch {
		case !seat.Remote():
			name := seat.Name
			if name == "" {
				name = fmt.Sprintf("%s-%d", seat.Bot, i)
			}
			a, err := newBot(seat.Bot, newRand(cfg.Seed, uint64(i+1)), logger.With("player", name))
			if err != nil {
				return nil, fmt.Errorf("seats[%d]: %w", i, err)
			}
			players[i] = referee.NewLocal(name, a)
		case seat.Name != "":
			found := false
			for j, r := range remotes {
				if !claimed[j] && r.Name() == seat.Name {
					players[i], claimed[j], found = r, true, true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("seats[%d]: no agent named %q joined", i, seat.Name)
			}
		}
	}

	for i, seat := range cfg.Seats {
		if !seat.Remote() || seat.Name != "" {
			continue
		}
		for j, r := range remotes {
			if !claimed[j] {
				players[i], claimed[j] = r, true
				break
			}
		}
		if players[i] == nil {
			return nil, fmt.Errorf("seats[%d]: no agent left for an unnamed seat", i)
		}
	}

	names := make(map[string]bool, len(players))
	for i, p := range players {
		if names[p.Name()] {
			return nil, fmt.Errorf("seats[%d]: duplicate player name %q", i, p.Name())
		}
		names[p.Name()] = true
	}
	return players, nil
}

func closeAll(remotes []*transport.RemotePlayer) {
	for _, r := range remotes {
		r.Close()
	}
}

// collector records to the match log and remembers each match id.
type collector struct {
	log *store.MatchLog
	ids []string
}

func (c *collector) Begin(ctx context.Context, d referee.Deal) error {
	if err := c.log.Begin(ctx, d); err != nil {
		return err
	}
	c.ids = append(c.ids, c.log.ID())
	return nil
}

func (c *collector) Record(ctx context.Context, e referee.Event) error {
	return c.log.Record(ctx, e)
}

func (c *collector) Finish(ctx context.Context, r referee.Result) error {
	return c.log.Finish(ctx, r)
}

func writeSeries(w io.Writer, res SeriesResult) {
	for i, m := range res.Matches {
		winner := m.Winner
		if winner == "" {
			winner = "nobody"
		}
		if m.ByDefault {
			winner += " (by default)"
		}
		id := ""
		if m.ID != "" {
			id = " " + m.ID
		}
		fmt.Fprintf(w, "match %d%s: %s won in %d rounds, solution %s, %d violations\n",
			i+1, id, winner, m.Rounds, m.Solution, m.Violations)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-20s %5s %5s\n", "PLAYER", "GAMES", "WINS")
	for _, s := range res.Standings {
		mark := ""
		if s.Disqualified {
			mark = " disqualified"
		}
		fmt.Fprintf(w, "%-20s %5d %5d%s\n", s.Name, s.Games, s.Wins, mark)
	}
}
