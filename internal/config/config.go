// Package config loads referee configuration.
//
// Configuration is written in CUE and checked against an embedded schema.
// Values not set in the file fall back to the schema defaults, and
// SPEEDCLUE_* environment variables (optionally from a .env file) override
// both:
//
//	listen:  "0.0.0.0:7777"
//	games:   10
//	timeout: "2s"
//	seats: [
//		{name: "alice"},
//		{name: "focus1", bot: "focus"},
//		{bot: "random"},
//	]
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/speedclue/internal/game"
)

//go:embed schema.cue
var schemaSource string

// Bot kinds a seat may be filled with.
const (
	BotFocus   = "focus"
	BotDeducer = "deducer"
	BotRandom  = "random"
)

// BotKinds lists the valid bot kinds.
var BotKinds = []string{BotFocus, BotDeducer, BotRandom}

var seatName = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// Seat is one seat of the table. A seat with no Bot is filled by a remote
// agent.
type Seat struct {
	Name string `json:"name"`
	Bot  string `json:"bot"`
}

// Remote reports whether the seat waits for a network agent.
func (s Seat) Remote() bool {
	return s.Bot == ""
}

// Config is the referee configuration.
type Config struct {
	Listen  string
	Seats   []Seat
	Games   int
	Timeout time.Duration
	Seed    uint64
	DB      string

	// MaxRounds caps each match; 0 keeps the referee default.
	MaxRounds int
}

// Default returns the schema defaults with no seats.
func Default() *Config {
	return &Config{
		Listen:  "127.0.0.1:7777",
		Games:   1,
		Timeout: 5 * time.Second,
		Seed:    1,
		DB:      "speedclue.db",
	}
}

// RemoteSeats returns the number of seats filled by network agents.
func (c *Config) RemoteSeats() int {
	n := 0
	for _, s := range c.Seats {
		if s.Remote() {
			n++
		}
	}
	return n
}

// Validate checks the constraints the schema expresses, for configurations
// assembled from flags rather than a file.
func (c *Config) Validate() error {
	if err := game.ValidatePlayerCount(len(c.Seats)); err != nil {
		return fmt.Errorf("seats: %w", err)
	}
	names := make(map[string]bool, len(c.Seats))
	for i, s := range c.Seats {
		switch s.Bot {
		case "", BotFocus, BotDeducer, BotRandom:
		default:
			return fmt.Errorf("seats[%d]: unknown bot kind %q", i, s.Bot)
		}
		if s.Name == "" {
			continue
		}
		if !seatName.MatchString(s.Name) {
			return fmt.Errorf("seats[%d]: invalid name %q", i, s.Name)
		}
		if names[s.Name] {
			return fmt.Errorf("seats[%d]: duplicate name %q", i, s.Name)
		}
		names[s.Name] = true
	}
	if c.Games < 1 {
		return fmt.Errorf("games must be at least 1, got %d", c.Games)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("max_rounds must not be negative, got %d", c.MaxRounds)
	}
	if c.Listen == "" && c.RemoteSeats() > 0 {
		return errors.New("listen address is required for remote seats")
	}
	return nil
}

// rawConfig mirrors #Config.
type rawConfig struct {
	Listen    string `json:"listen"`
	Seats     []Seat `json:"seats"`
	Games     int    `json:"games"`
	Timeout   string `json:"timeout"`
	Seed      int64  `json:"seed"`
	DB        string `json:"db"`
	MaxRounds int    `json:"max_rounds"`
}

// Error is a configuration error with its CUE source position, if any.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// LoadFile reads a CUE configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse unifies CUE source with the schema and decodes the result.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var raw rawConfig
	if err := v.Decode(&raw); err != nil {
		return nil, formatCUEError(err)
	}

	timeout, err := time.ParseDuration(raw.Timeout)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("timeout: %v", err)}
	}
	cfg := &Config{
		Listen:    raw.Listen,
		Seats:     raw.Seats,
		Games:     raw.Games,
		Timeout:   timeout,
		Seed:      uint64(raw.Seed),
		DB:        raw.DB,
		MaxRounds: raw.MaxRounds,
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Message: err.Error()}
	}
	return cfg, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}
	first := errs[0]
	out := &Error{Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
