package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/speedclue/internal/config"
	"github.com/roach88/speedclue/internal/transport"
)

// AgentOptions holds flags for the agent command.
type AgentOptions struct {
	*RootOptions
	Addr  string
	Name  string
	Kind  string
	Seed  uint64
	Retry time.Duration
}

// AgentResult is printed when the referee ends the session.
type AgentResult struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Addr string `json:"addr"`
}

// NewAgentCommand creates the agent command.
func NewAgentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AgentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Play as an agent against a referee",
		Long: `Connect to a referee, announce a name and play until the referee
sends "done".

Exit codes:
  0 - The referee ended the session
  1 - The session broke off (protocol error, agent error, lost connection)
  2 - Command error (unknown bot kind, referee unreachable)

Examples:
  speedclue agent --addr 127.0.0.1:7777 --name sherlock
  speedclue agent --kind random --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:7777", "referee address")
	cmd.Flags().StringVar(&opts.Name, "name", "", "name announced to the referee (default: the bot kind)")
	cmd.Flags().StringVar(&opts.Kind, "kind", config.BotFocus, fmt.Sprintf("strategy, one of %v", config.BotKinds))
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed for the strategy")
	cmd.Flags().DurationVar(&opts.Retry, "retry", 0, "keep retrying the connection for this long")

	return cmd
}

func runAgent(opts *AgentOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger()
	ctx := cmd.Context()

	name := opts.Name
	if name == "" {
		name = opts.Kind
	}
	a, err := newBot(opts.Kind, newRand(opts.Seed, 0), logger)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeConfig, "invalid agent", err, nil)
	}

	deadline := time.Now().Add(opts.Retry)
	for {
		conn, err := transport.Dial(ctx, opts.Addr)
		if err == nil {
			defer conn.Close()
			err = transport.NewClient(name, a, logger).Run(ctx, conn)
			if err != nil {
				return out.Fail(ExitFailure, ErrCodeNetwork, "session ended", err, nil)
			}
			break
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			return out.Fail(ExitCommandError, ErrCodeNetwork, "cannot reach referee", err, nil)
		}
		logger.Debug("referee not reachable yet", "addr", opts.Addr, "error", err)
		select {
		case <-ctx.Done():
			return out.Fail(ExitCommandError, ErrCodeNetwork, "cannot reach referee", ctx.Err(), nil)
		case <-time.After(200 * time.Millisecond):
		}
	}

	res := AgentResult{Name: name, Kind: opts.Kind, Addr: opts.Addr}
	return out.Emit(res, func(w io.Writer) {
		fmt.Fprintf(w, "%s (%s) finished at %s\n", res.Name, res.Kind, res.Addr)
	})
}
