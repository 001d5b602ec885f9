package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

// Scenario is one seat's view of a game plus the conclusions expected from
// it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Players is the seat count.
	Players int `yaml:"players"`

	// Self is the observing seat.
	Self int `yaml:"self"`

	// Hand is the observing seat's deal.
	Hand []string `yaml:"hand"`

	// Events are applied in order after the reset.
	Events []Event `yaml:"events"`

	// Assertions are checked against the final engine state.
	Assertions []Assertion `yaml:"assertions"`
}

// Event is one observed event or injected fact. Exactly one field is set.
type Event struct {
	Suggestion *SuggestionStep `yaml:"suggestion,omitempty"`
	Accusation *AccusationStep `yaml:"accusation,omitempty"`
	Held       *FactStep       `yaml:"held,omitempty"`
	Excluded   *FactStep       `yaml:"excluded,omitempty"`
}

// SuggestionStep is a suggestion as the observing seat saw it. Shown is
// set only when the observing seat made or disproved the suggestion.
type SuggestionStep struct {
	By        int      `yaml:"by"`
	Cards     []string `yaml:"cards"`
	Disprover *int     `yaml:"disprover,omitempty"`
	Shown     string   `yaml:"shown,omitempty"`
}

// AccusationStep is an accusation and its outcome.
type AccusationStep struct {
	By    int      `yaml:"by"`
	Cards []string `yaml:"cards"`
	Won   bool     `yaml:"won"`
}

// FactStep puts one matrix cell directly.
type FactStep struct {
	Holder string `yaml:"holder"`
	Card   string `yaml:"card"`
}

// Assertion checks the final engine state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Holder is used by held, excluded and known_hand.
	Holder string `yaml:"holder,omitempty"`

	// Card is used by held and excluded.
	Card string `yaml:"card,omitempty"`

	// Cards is used by murder_set and known_hand.
	Cards []string `yaml:"cards,omitempty"`

	// Count is used by undetermined_count and pending_constraints.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertMurderSet          = "murder_set"
	AssertHeld               = "held"
	AssertExcluded           = "excluded"
	AssertUndeterminedCount  = "undetermined_count"
	AssertPendingConstraints = "pending_constraints"
	AssertKnownHand          = "known_hand"
	AssertContradiction      = "contradiction"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so that typos do not silently drop an assertion.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted. A
// non-empty filter is a glob matched against the base name without its
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			base := strings.TrimSuffix(filepath.Base(path), ext)
			ok, err := filepath.Match(filter, base)
			if err != nil {
				return fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LoadScenarios loads every scenario FindScenarios returns.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	files, err := FindScenarios(dir, filter)
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(files))
	for _, f := range files {
		s, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := game.ValidatePlayerCount(s.Players); err != nil {
		return err
	}
	if s.Self < 0 || s.Self >= s.Players {
		return fmt.Errorf("self %d outside [0, %d)", s.Self, s.Players)
	}
	if _, err := parseCards(s.Hand); err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	if len(s.Hand) != game.HandSize(s.Players, s.Self) {
		return fmt.Errorf("hand: seat %d of %d holds %d cards, got %d",
			s.Self, s.Players, game.HandSize(s.Players, s.Self), len(s.Hand))
	}

	for i, ev := range s.Events {
		if err := validateEvent(ev, s.Players); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, s.Players); err != nil {
			return err
		}
	}
	return nil
}

func validateEvent(ev Event, players int) error {
	set := 0
	for _, present := range []bool{ev.Suggestion != nil, ev.Accusation != nil, ev.Held != nil, ev.Excluded != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of suggestion, accusation, held, excluded is required")
	}

	switch {
	case ev.Suggestion != nil:
		_, err := ev.Suggestion.suggestion(players)
		return err
	case ev.Accusation != nil:
		_, err := ev.Accusation.accusation(players)
		return err
	case ev.Held != nil:
		return ev.Held.validate(players)
	default:
		return ev.Excluded.validate(players)
	}
}

func validateAssertion(index int, a Assertion, players int) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertMurderSet:
		if len(a.Cards) != 0 {
			if _, err := parseTriplet(a.Cards); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertHeld, AssertExcluded:
		if err := (FactStep{Holder: a.Holder, Card: a.Card}).validate(players); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertKnownHand:
		h, err := parseHolder(a.Holder, players)
		if err != nil || h == players {
			return fmt.Errorf("assertions[%d]: known_hand needs a seat, got %q", index, a.Holder)
		}
		if _, err := parseCards(a.Cards); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertUndeterminedCount, AssertPendingConstraints, AssertContradiction:
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}

func (s SuggestionStep) suggestion(players int) (game.Suggestion, error) {
	t, err := parseTriplet(s.Cards)
	if err != nil {
		return game.Suggestion{}, err
	}
	out := game.Suggestion{Suggester: s.By, Triplet: t, Disprover: s.Disprover}
	if s.Shown != "" {
		c, err := card.Parse(s.Shown)
		if err != nil {
			return game.Suggestion{}, err
		}
		out.Shown = &c
	}
	return out, out.Validate(players)
}

func (a AccusationStep) accusation(players int) (game.Accusation, error) {
	t, err := parseTriplet(a.Cards)
	if err != nil {
		return game.Accusation{}, err
	}
	out := game.Accusation{Accuser: a.By, Triplet: t, Won: a.Won}
	return out, out.Validate(players)
}

func (f FactStep) validate(players int) error {
	if _, err := parseHolder(f.Holder, players); err != nil {
		return err
	}
	_, err := card.Parse(f.Card)
	return err
}

// parseHolder reads a seat number or E. The envelope is returned as
// players.
func parseHolder(s string, players int) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "envelope":
		return players, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n >= players {
		return 0, fmt.Errorf("holder %q is neither a seat in [0, %d) nor E", s, players)
	}
	return n, nil
}

func parseCards(names []string) ([]card.Card, error) {
	out := make([]card.Card, len(names))
	for i, n := range names {
		c, err := card.Parse(n)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func parseTriplet(names []string) (card.Triplet, error) {
	cards, err := parseCards(names)
	if err != nil {
		return card.Triplet{}, err
	}
	if len(cards) != 3 {
		return card.Triplet{}, fmt.Errorf("triplet: want 3 cards, got %d", len(cards))
	}
	return card.NewTriplet(cards[0], cards[1], cards[2])
}
