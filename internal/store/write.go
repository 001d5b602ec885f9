package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/record"
	"github.com/roach88/speedclue/internal/referee"
)

// ErrNoMatch is returned when events arrive before Begin.
var ErrNoMatch = errors.New("no match in progress")

// MatchLog writes matches to the store as they are played. It implements
// referee.Recorder and may record several matches in sequence; each Begin
// starts a new one.
type MatchLog struct {
	store *Store
	ids   IDGenerator
	id    string
}

var _ referee.Recorder = (*MatchLog)(nil)

// NewMatchLog creates a recorder. A nil ids uses UUIDv7Generator.
func (s *Store) NewMatchLog(ids IDGenerator) *MatchLog {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	return &MatchLog{store: s, ids: ids}
}

// ID returns the id of the match being recorded, or of the last one.
func (l *MatchLog) ID() string {
	return l.id
}

// Begin inserts the match and its seats.
func (l *MatchLog) Begin(ctx context.Context, d referee.Deal) error {
	hash, err := record.DealHash(record.EncodeDeal(d))
	if err != nil {
		return fmt.Errorf("begin match: %w", err)
	}
	id := l.ids.Generate()

	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin match: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, players, solution, deal_hash)
		VALUES (?, ?, ?, ?)
	`, id, len(d.Names), d.Solution.Codes(), hash)
	if err != nil {
		return fmt.Errorf("begin match: insert match: %w", err)
	}

	for i, name := range d.Names {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO seats (match_id, seat, name, hand)
			VALUES (?, ?, ?, ?)
		`, id, i, name, joinCodes(d.Hands[i]))
		if err != nil {
			return fmt.Errorf("begin match: insert seat %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("begin match: commit: %w", err)
	}
	l.id = id
	return nil
}

// Record appends one event. Writing the same event twice is a no-op.
func (l *MatchLog) Record(ctx context.Context, e referee.Event) error {
	if l.id == "" {
		return ErrNoMatch
	}
	payload := record.EncodeEvent(e)
	data, err := record.Marshal(payload)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	id, err := record.EventID(l.id, e.Seq, payload)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = l.store.db.ExecContext(ctx, `
		INSERT INTO events (id, match_id, seq, kind, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, l.id, e.Seq, string(e.Kind), string(data))
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Finish stores the outcome.
func (l *MatchLog) Finish(ctx context.Context, r referee.Result) error {
	if l.id == "" {
		return ErrNoMatch
	}
	_, err := l.store.db.ExecContext(ctx, `
		UPDATE matches
		SET winner = ?, by_default = ?, rounds = ?, finished = 1
		WHERE id = ?
	`, r.Winner, r.ByDefault, r.Rounds, l.id)
	if err != nil {
		return fmt.Errorf("finish match: %w", err)
	}
	return nil
}

func joinCodes(cards []card.Card) string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.Code()
	}
	return strings.Join(codes, " ")
}

func splitCodes(s string) ([]card.Card, error) {
	fields := strings.Fields(s)
	out := make([]card.Card, len(fields))
	for i, f := range fields {
		c, err := card.ParseCode(f)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
