package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/speedclue/internal/store"
)

// MatchesOptions holds flags for the matches command.
type MatchesOptions struct {
	*RootOptions
	DB    string
	Limit int
}

// MatchSummaryLine is one row of the matches listing.
type MatchSummaryLine struct {
	ID         string   `json:"id"`
	Players    []string `json:"players"`
	Solution   string   `json:"solution"`
	Winner     string   `json:"winner"`
	ByDefault  bool     `json:"by_default"`
	Rounds     int      `json:"rounds"`
	Finished   bool     `json:"finished"`
	Violations int      `json:"violations"`
	DealHash   string   `json:"deal_hash"`
}

// NewMatchesCommand creates the matches command.
func NewMatchesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "List logged matches",
		Long: `List the matches in a match log, newest first.

Exit codes:
  0 - Success
  2 - Command error (database not found)

Examples:
  speedclue matches --db speedclue.db
  speedclue matches --db speedclue.db --limit 5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatches(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "speedclue.db", "match log database")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum matches to list (0 = all)")

	return cmd
}

func runMatches(opts *MatchesOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	st, err := openExisting(opts.DB)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err, nil)
	}
	defer st.Close()

	matches, err := st.ListMatches(cmd.Context(), opts.Limit)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeStore, "failed to list matches", err, nil)
	}

	lines := make([]MatchSummaryLine, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, MatchSummaryLine{
			ID:         m.ID,
			Players:    m.Names,
			Solution:   m.Solution.Codes(),
			Winner:     m.WinnerName(),
			ByDefault:  m.ByDefault,
			Rounds:     m.Rounds,
			Finished:   m.Finished,
			Violations: m.Violations,
			DealHash:   m.DealHash,
		})
	}

	return out.Emit(lines, func(w io.Writer) { writeMatches(w, lines) })
}

// openExisting opens a match log without creating one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found: %s", path)
		}
		return nil, err
	}
	return store.Open(path)
}

func writeMatches(w io.Writer, lines []MatchSummaryLine) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "No matches logged.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-10s  %6s  %-16s  %s\n", "ID", "SOLUTION", "ROUNDS", "WINNER", "PLAYERS")
	for _, m := range lines {
		winner := m.Winner
		switch {
		case !m.Finished:
			winner = "(unfinished)"
		case winner == "":
			winner = "nobody"
		case m.ByDefault:
			winner += "*"
		}
		fmt.Fprintf(w, "%-36s  %-10s  %6d  %-16s  %s\n",
			m.ID, m.Solution, m.Rounds, winner, strings.Join(m.Players, ","))
	}
}
