// Package referee runs Speed Clue matches between players.
//
// A Match deals the cards, drives the turn loop, checks every reply against
// the contest rules and reports the outcome. Seats that break a rule are
// disqualified: they leave the game, but their cards still disprove.
package referee

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
)

// DefaultMaxRounds ends a match nobody can finish. Every agent that never
// repeats a suggestion exhausts the 324 triplets well before this.
const DefaultMaxRounds = 400

// Match plays one game.
type Match struct {
	players   []Player
	rng       *rand.Rand
	recorder  Recorder
	logger    *slog.Logger
	maxRounds int

	// banned seats were disqualified earlier in a series and sit this
	// game out.
	banned map[int]bool

	dealer func(*rand.Rand, int) (card.Triplet, [][]card.Card, error)
}

// MatchOption configures a Match.
type MatchOption func(*Match)

// WithRecorder records the match.
func WithRecorder(r Recorder) MatchOption {
	return func(m *Match) {
		m.recorder = r
	}
}

// WithLogger sets the match logger.
func WithLogger(l *slog.Logger) MatchOption {
	return func(m *Match) {
		m.logger = l
	}
}

// WithMaxRounds overrides DefaultMaxRounds.
func WithMaxRounds(n int) MatchOption {
	return func(m *Match) {
		m.maxRounds = n
	}
}

// WithBanned marks seats that take no part beyond holding cards.
func WithBanned(seats ...int) MatchOption {
	return func(m *Match) {
		for _, s := range seats {
			m.banned[s] = true
		}
	}
}

// NewMatch creates a match. Seat i is players[i]; seat 0 moves first.
func NewMatch(players []Player, rng *rand.Rand, opts ...MatchOption) (*Match, error) {
	if err := game.ValidatePlayerCount(len(players)); err != nil {
		return nil, fmt.Errorf("referee: %w", err)
	}
	m := &Match{
		players:   players,
		rng:       rng,
		recorder:  nopRecorder{},
		logger:    slog.Default(),
		maxRounds: DefaultMaxRounds,
		banned:    make(map[int]bool),
		dealer:    game.Deal,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// seatState is the referee's bookkeeping for one seat.
type seatState struct {
	hand      []card.Card
	seen      map[card.Card]bool
	suggested map[card.Triplet]bool

	// alive seats still take turns; out seats (disqualified or banned)
	// receive no messages at all.
	alive bool
	out   bool

	mustAccuse bool
}

type play struct {
	m      *Match
	ctx    context.Context
	seats  []*seatState
	deal   Deal
	result Result
	turns  int
	events int
	round  int
}

// Play runs the match to completion. The returned error is reserved for
// ctx cancellation and recorder failures; player misbehaviour is reported
// in Result.Violations.
func (m *Match) Play(ctx context.Context) (Result, error) {
	n := len(m.players)
	solution, hands, err := m.dealer(m.rng, n)
	if err != nil {
		return Result{}, err
	}

	p := &play{
		m:     m,
		ctx:   ctx,
		seats: make([]*seatState, n),
		deal:  Deal{Names: make([]string, n), Solution: solution, Hands: hands},
		round: 1,
	}
	for i, pl := range m.players {
		p.deal.Names[i] = pl.Name()
		st := &seatState{
			hand:      hands[i],
			seen:      make(map[card.Card]bool),
			suggested: make(map[card.Triplet]bool),
			alive:     !m.banned[i],
			out:       m.banned[i],
		}
		for _, c := range hands[i] {
			st.seen[c] = true
		}
		p.seats[i] = st
	}
	p.result = Result{Names: p.deal.Names, Solution: solution, Winner: -1}

	if err := m.recorder.Begin(ctx, p.deal); err != nil {
		return Result{}, fmt.Errorf("record begin: %w", err)
	}
	m.logger.Info("match started", "players", n, "names", p.deal.Names)

	for i, pl := range m.players {
		if p.seats[i].out {
			continue
		}
		if err := pl.Reset(game.Reset{PlayerCount: n, Self: i, Hand: hands[i]}); err != nil {
			if err := p.disqualify(i, classify(err), "reset", err); err != nil {
				return Result{}, err
			}
		}
	}

	if err := p.loop(); err != nil {
		return Result{}, err
	}

	p.result.Rounds = p.round
	if err := m.recorder.Finish(ctx, p.result); err != nil {
		return Result{}, fmt.Errorf("record finish: %w", err)
	}
	m.logger.Info("match over",
		"winner", p.result.WinnerName(),
		"by_default", p.result.ByDefault,
		"rounds", p.result.Rounds,
		"violations", len(p.result.Violations),
	)
	return p.result, nil
}

func (p *play) loop() error {
	n := len(p.seats)
	for seat := 0; ; seat = (seat + 1) % n {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		if seat == 0 && p.turns > 0 {
			if p.round >= p.m.maxRounds {
				p.m.logger.Warn("round limit reached", "rounds", p.round)
				return nil
			}
			p.round++
		}

		alive := p.alive()
		switch len(alive) {
		case 0:
			return nil
		case 1:
			p.result.Winner = alive[0]
			p.result.ByDefault = true
			return nil
		}
		if !p.seats[seat].alive {
			continue
		}

		done, err := p.turn(seat)
		if err != nil || done {
			return err
		}
	}
}

// turn plays one seat's suggestion and accusation. done is true once the
// match has a winner.
func (p *play) turn(seat int) (done bool, err error) {
	n := len(p.seats)
	pl := p.m.players[seat]
	st := p.seats[seat]
	st.mustAccuse = false
	p.turns++

	t, err := pl.Suggest()
	if err != nil {
		return false, p.disqualify(seat, classify(err), "suggest", err)
	}
	if !t.Valid() {
		return false, p.disqualify(seat, ViolationProtocol, "malformed suggestion", nil)
	}
	if st.suggested[t] {
		return false, p.disqualify(seat, ViolationDuplicateSuggestion, t.Codes(), nil)
	}
	st.suggested[t] = true

	var disprover *int
	var shown card.Card
	for s := game.NextSeat(n, seat); s != seat; s = game.NextSeat(n, s) {
		c, ok, err := p.disprove(s, seat, t)
		if err != nil {
			return false, err
		}
		if ok {
			disprover, shown = game.Seat(s), c
			break
		}
	}

	ev := Event{Round: p.round, Kind: EventSuggestion, Seat: seat, Triplet: t, Disprover: disprover}
	if disprover != nil {
		ev.Shown = game.Shown(shown)
		st.seen[shown] = true
	} else if !p.anySeen(seat, t) {
		st.mustAccuse = true
	}
	if err := p.record(ev); err != nil {
		return false, err
	}
	p.m.logger.Debug("suggestion",
		"round", p.round,
		"seat", seat,
		"triplet", t.Codes(),
		"disproved", disprover != nil,
	)

	for i := range p.seats {
		if err := p.inform(i, func(pl Player) error { return pl.Suggestion(ev.SuggestionFor(i)) }); err != nil {
			return false, err
		}
	}
	if !st.alive {
		// Disqualified while being told about its own suggestion.
		return false, nil
	}

	accused, ok, err := pl.Accuse()
	if err != nil {
		return false, p.disqualify(seat, classify(err), "accuse", err)
	}
	if !ok {
		if st.mustAccuse {
			return false, p.disqualify(seat, ViolationMissedAccusation, t.Codes(), nil)
		}
		return false, nil
	}
	if p.anySeen(seat, accused) {
		return false, p.disqualify(seat, ViolationSuicidalAccusation, accused.Codes(), nil)
	}

	won := accused == p.deal.Solution
	aev := Event{Round: p.round, Kind: EventAccusation, Seat: seat, Triplet: accused, Won: won}
	if err := p.record(aev); err != nil {
		return false, err
	}
	p.m.logger.Info("accusation", "round", p.round, "seat", seat, "player", pl.Name(), "triplet", accused.Codes(), "won", won)

	for i := range p.seats {
		if err := p.inform(i, func(pl Player) error { return pl.Accusation(aev.Accusation()) }); err != nil {
			return false, err
		}
	}
	if won {
		p.result.Winner = seat
		return true, nil
	}
	if st.alive {
		st.alive = false
		p.result.Eliminated = append(p.result.Eliminated, seat)
	}
	return false, nil
}

// disprove asks seat s to disprove asker's suggestion. A seat holding one
// matching card shows it without being asked; a seat that is out has its
// first matching card shown for it.
func (p *play) disprove(s, asker int, t card.Triplet) (card.Card, bool, error) {
	cands := game.DisproveCards(p.seats[s].hand, t)
	switch {
	case len(cands) == 0:
		return card.Card{}, false, nil
	case len(cands) == 1 || p.seats[s].out:
		return cands[0], true, nil
	}

	c, ok, err := p.m.players[s].Disprove(asker, t)
	if err != nil {
		return cands[0], true, p.disqualify(s, classify(err), "disprove", err)
	}
	if !ok || !containsCard(cands, c) {
		detail := fmt.Sprintf("%s for %s", c.Code(), t.Codes())
		if !ok {
			detail = "refused " + t.Codes()
		}
		return cands[0], true, p.disqualify(s, ViolationInvalidDisprove, detail, nil)
	}
	return c, true, nil
}

// inform delivers an event to seat i unless it is out.
func (p *play) inform(i int, send func(Player) error) error {
	if p.seats[i].out {
		return nil
	}
	if err := send(p.m.players[i]); err != nil {
		return p.disqualify(i, classify(err), "inform", err)
	}
	return nil
}

// disqualify removes a seat from play and records why. It only returns an
// error when recording fails.
func (p *play) disqualify(seat int, kind ViolationKind, detail string, cause error) error {
	st := p.seats[seat]
	if st.out {
		return nil
	}
	v := &Violation{Kind: kind, Seat: seat, Player: p.deal.Names[seat], Detail: detail, Err: cause}
	st.out = true
	if st.alive {
		st.alive = false
		p.result.Eliminated = append(p.result.Eliminated, seat)
	}
	p.result.Violations = append(p.result.Violations, v)
	p.m.logger.Warn("player disqualified", "seat", seat, "player", v.Player, "violation", string(kind), "error", v.Error())

	return p.record(Event{Round: p.round, Kind: EventViolation, Seat: seat, Violation: kind, Detail: v.Error()})
}

// record numbers events from 1 and hands them to the recorder.
func (p *play) record(ev Event) error {
	p.events++
	ev.Seq = p.events
	if err := p.m.recorder.Record(p.ctx, ev); err != nil {
		return fmt.Errorf("record %s: %w", ev.Kind, err)
	}
	return nil
}

func (p *play) alive() []int {
	var out []int
	for i, st := range p.seats {
		if st.alive {
			out = append(out, i)
		}
	}
	return out
}

func (p *play) anySeen(seat int, t card.Triplet) bool {
	for _, c := range t.Cards() {
		if p.seats[seat].seen[c] {
			return true
		}
	}
	return false
}

func containsCard(cards []card.Card, c card.Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}
