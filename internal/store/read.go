package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/record"
	"github.com/roach88/speedclue/internal/referee"
)

// MatchSummary is one row of the match listing.
type MatchSummary struct {
	ID         string
	Players    int
	Names      []string
	Solution   card.Triplet
	DealHash   string
	Winner     int
	ByDefault  bool
	Rounds     int
	Finished   bool
	Violations int
}

// WinnerName returns the winner's name, or "" when nobody won.
func (m MatchSummary) WinnerName() string {
	if m.Winner < 0 || m.Winner >= len(m.Names) {
		return ""
	}
	return m.Names[m.Winner]
}

// Seat is a seat as dealt.
type Seat struct {
	Seat int
	Name string
	Hand []card.Card
}

// Match is a fully read match.
type Match struct {
	MatchSummary
	Seats  []Seat
	Events []referee.Event
}

// Deal returns the match's deal.
func (m Match) Deal() referee.Deal {
	d := referee.Deal{Solution: m.Solution}
	for _, s := range m.Seats {
		d.Names = append(d.Names, s.Name)
		d.Hands = append(d.Hands, s.Hand)
	}
	return d
}

const summaryColumns = `
	m.id, m.players, m.solution, m.deal_hash, m.winner, m.by_default, m.rounds, m.finished,
	(SELECT COUNT(*) FROM events e WHERE e.match_id = m.id AND e.kind = 'violation')
`

// ListMatches returns up to limit matches, newest first. limit <= 0 lists
// all of them.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]MatchSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM matches m ORDER BY m.id COLLATE BINARY DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := []MatchSummary{}
	index := make(map[string]int)
	for rows.Next() {
		m, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		index[m.ID] = len(matches)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	rows.Close()

	// One pass over seats instead of a query per match.
	seatRows, err := s.db.QueryContext(ctx, `
		SELECT match_id, name FROM seats ORDER BY match_id COLLATE BINARY ASC, seat ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query seats: %w", err)
	}
	defer seatRows.Close()
	for seatRows.Next() {
		var id, name string
		if err := seatRows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		if i, ok := index[id]; ok {
			matches[i].Names = append(matches[i].Names, name)
		}
	}
	if err := seatRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}
	return matches, nil
}

// ResolveID expands a unique id prefix to the full match id.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrMatchNotFound)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM matches WHERE substr(id, 1, ?) = ? ORDER BY id COLLATE BINARY LIMIT 2
	`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrMatchNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// ReadMatch reads a match with its seats and events. id may be a unique
// prefix.
func (s *Store) ReadMatch(ctx context.Context, id string) (Match, error) {
	full, err := s.ResolveID(ctx, id)
	if err != nil {
		return Match{}, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM matches m WHERE m.id = ?`, full)
	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, full)
	}
	if err != nil {
		return Match{}, err
	}

	m := Match{MatchSummary: summary}
	if m.Seats, err = s.readSeats(ctx, full); err != nil {
		return Match{}, err
	}
	for _, seat := range m.Seats {
		m.Names = append(m.Names, seat.Name)
	}
	if m.Events, err = s.ReadEvents(ctx, full); err != nil {
		return Match{}, err
	}
	return m, nil
}

func (s *Store) readSeats(ctx context.Context, matchID string) ([]Seat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seat, name, hand FROM seats WHERE match_id = ? ORDER BY seat ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query seats: %w", err)
	}
	defer rows.Close()

	var seats []Seat
	for rows.Next() {
		var st Seat
		var hand string
		if err := rows.Scan(&st.Seat, &st.Name, &hand); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		if st.Hand, err = splitCodes(hand); err != nil {
			return nil, fmt.Errorf("seat %d hand: %w", st.Seat, err)
		}
		seats = append(seats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}
	return seats, nil
}

// ReadEvents returns a match's events ordered by seq.
func (s *Store) ReadEvents(ctx context.Context, matchID string) ([]referee.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, payload FROM events
		WHERE match_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []referee.Event{}
	for rows.Next() {
		var seq int
		var payload string
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		obj, err := record.DecodeObject([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", seq, err)
		}
		ev, err := record.DecodeEvent(seq, obj)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", seq, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (MatchSummary, error) {
	var m MatchSummary
	var solution string
	err := row.Scan(&m.ID, &m.Players, &solution, &m.DealHash, &m.Winner, &m.ByDefault, &m.Rounds, &m.Finished, &m.Violations)
	if errors.Is(err, sql.ErrNoRows) {
		return m, err
	}
	if err != nil {
		return m, fmt.Errorf("scan match: %w", err)
	}
	if m.Solution, err = card.ParseTriplet(strings.Fields(solution)); err != nil {
		return m, fmt.Errorf("match %s solution: %w", m.ID, err)
	}
	return m, nil
}
