package cli

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/speedclue/internal/agent"
	"github.com/roach88/speedclue/internal/config"
)

// newBot builds a built-in agent of the given kind.
func newBot(kind string, rng *rand.Rand, logger *slog.Logger) (agent.Agent, error) {
	opt := agent.WithLogger(logger)
	switch kind {
	case config.BotFocus:
		return agent.NewDeducer(agent.NewFocusPolicy(rng), opt), nil
	case config.BotDeducer:
		return agent.NewDeducer(agent.NewRandomPolicy(rng), opt), nil
	case config.BotRandom:
		return agent.NewRandom(rng, opt), nil
	default:
		return nil, fmt.Errorf("unknown bot kind %q (want one of %v)", kind, config.BotKinds)
	}
}

// newRand seeds a generator; stream separates generators sharing a seed.
func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream^0x9e3779b97f4a7c15))
}
