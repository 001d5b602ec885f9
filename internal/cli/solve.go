package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/speedclue/internal/agent"
	"github.com/roach88/speedclue/internal/harness"
)

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <scenario.yaml>",
		Short: "Show what the engine deduces from one scenario",
		Long: `Apply a scenario's events one at a time and print, after each, how many
cards are undetermined, how many constraints are pending and the murder set
once it is known; then print the final engine state.

Exit codes:
  0 - The scenario's assertions hold
  1 - An assertion failed or the events contradict each other
  2 - Command error (missing or invalid scenario file)

Examples:
  speedclue solve scenarios/scenario_b.yaml
  speedclue solve scenarios/scenario_b.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSolve(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeScenario, "failed to load scenario", err, nil)
	}
	result, err := harness.Run(scenario, agent.WithLogger(opts.logger()))
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeScenario, "failed to run scenario", err, nil)
	}

	if !result.Pass {
		if !out.JSON() {
			writeSolve(out.Writer, result)
		}
		return out.Fail(ExitFailure, ErrCodeTestFailed, fmt.Sprintf("scenario %s failed", result.Name), nil, result)
	}
	return out.Emit(result, func(w io.Writer) { writeSolve(w, result) })
}

func writeSolve(w io.Writer, r *harness.Result) {
	fmt.Fprintf(w, "# %s\n", r.Name)
	for _, s := range r.Steps {
		murder := "unknown"
		if s.Murder != "" {
			murder = s.Murder
		}
		fmt.Fprintf(w, "%3d  %-32s undetermined=%-2d pending=%-2d murder=%s\n",
			s.Index, s.Event, s.Undetermined, s.Pending, murder)
	}
	if r.Err != "" {
		fmt.Fprintf(w, "stopped: %s\n", r.Err)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, r.Snapshot)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "✗ %s\n", e)
	}
}
