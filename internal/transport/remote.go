package transport

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/roach88/speedclue/internal/card"
	"github.com/roach88/speedclue/internal/game"
	"github.com/roach88/speedclue/internal/protocol"
)

// DefaultTimeout bounds one request/reply exchange.
const DefaultTimeout = 10 * time.Second

// RemotePlayer is the referee's side of one agent connection.
//
// Every exchange writes one message and reads one reply under a deadline.
// A deadline miss surfaces as an error wrapping os.ErrDeadlineExceeded; a
// malformed reply as a *protocol.ProtocolError.
type RemotePlayer struct {
	name    string
	conn    net.Conn
	timeout time.Duration
	logger  *slog.Logger
	buf     []byte
}

// NewRemotePlayer wraps an already greeted connection.
func NewRemotePlayer(name string, conn net.Conn, timeout time.Duration, logger *slog.Logger) *RemotePlayer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RemotePlayer{
		name:    name,
		conn:    conn,
		timeout: timeout,
		logger:  logger,
		buf:     make([]byte, MessageSize),
	}
}

// Name returns the name the agent announced.
func (p *RemotePlayer) Name() string {
	return p.name
}

func (p *RemotePlayer) exchange(msg string) (string, error) {
	if err := p.conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		return "", err
	}
	if err := writeLine(p.conn, msg); err != nil {
		return "", fmt.Errorf("%s: send %q: %w", p.name, msg, err)
	}
	n, err := p.conn.Read(p.buf)
	if err != nil {
		return "", fmt.Errorf("%s: reply to %q: %w", p.name, msg, err)
	}
	reply := protocol.Clean(string(p.buf[:n]))
	p.logger.Debug("exchange", "player", p.name, "sent", msg, "received", reply)
	return reply, nil
}

func (p *RemotePlayer) inform(req protocol.Request) error {
	reply, err := p.exchange(req.String())
	if err != nil {
		return err
	}
	return protocol.ExpectReply(reply, protocol.ReplyOK)
}

// Reset sends the seat's deal.
func (p *RemotePlayer) Reset(r game.Reset) error {
	return p.inform(protocol.Request{Kind: protocol.KindReset, Reset: r})
}

// Suggestion reports a suggestion's outcome.
func (p *RemotePlayer) Suggestion(s game.Suggestion) error {
	return p.inform(protocol.Request{Kind: protocol.KindSuggestion, Suggestion: s})
}

// Accusation reports an accusation's outcome.
func (p *RemotePlayer) Accusation(a game.Accusation) error {
	return p.inform(protocol.Request{Kind: protocol.KindAccusation, Accusation: a})
}

// Suggest asks for this turn's suggestion.
func (p *RemotePlayer) Suggest() (card.Triplet, error) {
	reply, err := p.exchange(protocol.KindSuggest.String())
	if err != nil {
		return card.Triplet{}, err
	}
	return protocol.ParseSuggest(reply)
}

// Accuse asks whether the agent accuses.
func (p *RemotePlayer) Accuse() (card.Triplet, bool, error) {
	reply, err := p.exchange(protocol.KindAccuse.String())
	if err != nil {
		return card.Triplet{}, false, err
	}
	return protocol.ParseAccuse(reply)
}

// Disprove asks which card to show asker.
func (p *RemotePlayer) Disprove(asker int, t card.Triplet) (card.Card, bool, error) {
	reply, err := p.exchange(protocol.Request{Kind: protocol.KindDisprove, Asker: asker, Triplet: t}.String())
	if err != nil {
		return card.Card{}, false, err
	}
	return protocol.ParseShow(reply)
}

// Done ends the session and closes the connection.
func (p *RemotePlayer) Done() error {
	reply, err := p.exchange(protocol.KindDone.String())
	if err == nil {
		err = protocol.ExpectReply(reply, protocol.ReplyDead)
	}
	if cerr := p.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close drops the connection without the "done" exchange.
func (p *RemotePlayer) Close() error {
	return p.conn.Close()
}
