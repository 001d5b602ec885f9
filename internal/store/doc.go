// Package store keeps a SQLite log of refereed matches.
//
// A match is written as it is played through MatchLog, which implements
// referee.Recorder:
//   - matches: one row per game (UUIDv7 id, deal fingerprint, outcome)
//   - seats: name and dealt hand of every seat
//   - events: the referee's events in order, as canonical JSON payloads
//     with content-addressed ids (see internal/record)
//
// Ordering is by the logical seq column, never by wall time. Event ids are
// derived from the match id, seq and payload, so writing the same event
// twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
