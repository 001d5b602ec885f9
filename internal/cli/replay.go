package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/speedclue/internal/agent"
	"github.com/roach88/speedclue/internal/engine"
	"github.com/roach88/speedclue/internal/protocol"
	"github.com/roach88/speedclue/internal/referee"
	"github.com/roach88/speedclue/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	DB   string
	Seat int
}

// ReplayStepLine is the deduction state after one logged event.
type ReplayStepLine struct {
	Seq          int    `json:"seq"`
	Event        string `json:"event"`
	Undetermined int    `json:"undetermined"`
	Pending      int    `json:"pending"`
	Murder       string `json:"murder,omitempty"`
}

// SeatReplay is one seat's view of a replayed match.
type SeatReplay struct {
	Seat     int              `json:"seat"`
	Name     string           `json:"name"`
	Steps    []ReplayStepLine `json:"steps"`
	Snapshot string           `json:"snapshot"`
	Err      string           `json:"error,omitempty"`
}

// ReplayResult is the replay command's output.
type ReplayResult struct {
	ID       string       `json:"id"`
	Solution string       `json:"solution"`
	Winner   string       `json:"winner"`
	Seats    []SeatReplay `json:"seats"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <match-id>",
		Short: "Replay a logged match through the inference engine",
		Long: `Replay a logged match from the point of view of one seat, or of every
seat, printing what that seat could deduce after each event.

The match id may be any unique prefix.

Exit codes:
  0 - Every replayed view is consistent
  1 - A view ran into a contradiction
  2 - Command error (database or match not found)

Examples:
  speedclue replay 019227 --db speedclue.db
  speedclue replay 019227 --db speedclue.db --seat 1 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "speedclue.db", "match log database")
	cmd.Flags().IntVar(&opts.Seat, "seat", -1, "seat to replay (default: every seat)")

	return cmd
}

func runReplay(opts *ReplayOptions, id string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	st, err := openExisting(opts.DB)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err, nil)
	}
	defer st.Close()

	m, err := st.ReadMatch(cmd.Context(), id)
	switch {
	case errors.Is(err, store.ErrMatchNotFound), errors.Is(err, store.ErrAmbiguousID):
		return out.Fail(ExitCommandError, ErrCodeNotFound, "cannot find match", err, nil)
	case err != nil:
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to read match", err, nil)
	}

	seats := make([]int, 0, len(m.Seats))
	if opts.Seat >= 0 {
		if opts.Seat >= len(m.Seats) {
			return out.Fail(ExitCommandError, ErrCodeReplay,
				fmt.Sprintf("seat %d outside [0, %d)", opts.Seat, len(m.Seats)), nil, nil)
		}
		seats = append(seats, opts.Seat)
	} else {
		for i := range m.Seats {
			seats = append(seats, i)
		}
	}

	res := ReplayResult{ID: m.ID, Solution: m.Solution.Codes(), Winner: m.WinnerName()}
	failed := 0
	for _, seat := range seats {
		sr := replaySeat(opts, m, seat)
		if sr.Err != "" {
			failed++
		}
		res.Seats = append(res.Seats, sr)
	}

	if failed > 0 {
		if !out.JSON() {
			writeReplay(out.Writer, res)
		}
		return out.Fail(ExitFailure, ErrCodeReplay, fmt.Sprintf("%d seat view(s) inconsistent", failed), nil, res)
	}
	return out.Emit(res, func(w io.Writer) { writeReplay(w, res) })
}

func replaySeat(opts *ReplayOptions, m store.Match, seat int) SeatReplay {
	sr := SeatReplay{Seat: seat, Name: m.Seats[seat].Name, Steps: []ReplayStepLine{}}
	logger := opts.logger().With("match", m.ID, "seat", seat)

	obs, err := m.Replay(seat, func(ev referee.Event, obs *agent.Observer) error {
		sr.Steps = append(sr.Steps, replayStep(ev, seat, obs.Engine()))
		return nil
	}, agent.WithLogger(logger))
	if err != nil {
		sr.Err = err.Error()
	}
	if obs != nil {
		sr.Snapshot = obs.Engine().Snapshot().Format()
	}
	return sr
}

func replayStep(ev referee.Event, seat int, e *engine.Engine) ReplayStepLine {
	line := ReplayStepLine{
		Seq:          ev.Seq,
		Undetermined: len(e.UndeterminedCards()),
		Pending:      len(e.PendingConstraints()),
	}
	switch ev.Kind {
	case referee.EventSuggestion:
		line.Event = protocol.Request{Kind: protocol.KindSuggestion, Suggestion: ev.SuggestionFor(seat)}.String()
	case referee.EventAccusation:
		line.Event = protocol.Request{Kind: protocol.KindAccusation, Accusation: ev.Accusation()}.String()
	default:
		line.Event = fmt.Sprintf("violation %d %s", ev.Seat, ev.Violation)
	}
	if t, ok := e.CandidateMurderSet(); ok {
		line.Murder = t.Codes()
	}
	return line
}

func writeReplay(w io.Writer, res ReplayResult) {
	winner := res.Winner
	if winner == "" {
		winner = "nobody"
	}
	fmt.Fprintf(w, "match %s: solution %s, won by %s\n", res.ID, res.Solution, winner)
	for _, s := range res.Seats {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "## seat %d (%s)\n", s.Seat, s.Name)
		for _, st := range s.Steps {
			murder := "unknown"
			if st.Murder != "" {
				murder = st.Murder
			}
			fmt.Fprintf(w, "%3d  %-32s undetermined=%-2d pending=%-2d murder=%s\n",
				st.Seq, st.Event, st.Undetermined, st.Pending, murder)
		}
		if s.Err != "" {
			fmt.Fprintf(w, "stopped: %s\n", s.Err)
		}
		fmt.Fprint(w, s.Snapshot)
	}
}
