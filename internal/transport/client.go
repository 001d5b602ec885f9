// Package transport moves protocol messages over byte streams.
//
// Client runs an agent's side of a connection. RemotePlayer is the
// referee's handle on a connected agent, with a deadline on every
// exchange. Accept performs the identity handshake for incoming agents.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/speedclue/internal/agent"
	"github.com/roach88/speedclue/internal/protocol"
)

// MessageSize is the fixed read size of one message. Shorter messages are
// padded with NULs by some referees.
const MessageSize = 256

// ErrClosed is returned when the peer hangs up before "done".
var ErrClosed = errors.New("transport: connection closed")

// Client answers referee messages on behalf of an agent.
type Client struct {
	name   string
	agent  agent.Agent
	logger *slog.Logger
}

// NewClient creates a client announcing itself as name.
func NewClient(name string, a agent.Agent, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{name: name, agent: a, logger: logger}
}

// Run performs the handshake and serves messages until "done", a protocol
// error, an agent error, or ctx cancellation. It returns nil after "done".
//
// When conn is an io.Closer, cancelling ctx closes it to unblock the read.
func (c *Client) Run(ctx context.Context, conn io.ReadWriter) error {
	if closer, ok := conn.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { closer.Close() })
		defer stop()
	}

	if err := writeLine(conn, protocol.Hello(c.name)); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	c.logger.Info("agent connected", "name", c.name)

	buf := make([]byte, MessageSize)
	players := 0
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return ErrClosed
			}
			return fmt.Errorf("read: %w", err)
		}
		line := protocol.Clean(string(buf[:n]))
		if line == "" {
			continue
		}

		req, err := protocol.ParseRequest(line, players)
		if err != nil {
			c.logger.Error("bad message", "name", c.name, "error", err)
			return err
		}
		c.logger.Debug("message received", "name", c.name, "kind", req.Kind.String())

		reply, err := c.dispatch(req)
		if err != nil {
			c.logger.Error("agent failed", "name", c.name, "kind", req.Kind.String(), "error", err)
			return fmt.Errorf("%s: %w", req.Kind, err)
		}
		if req.Kind == protocol.KindReset {
			players = req.Reset.PlayerCount
		}
		if err := writeLine(conn, reply); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		if req.Kind == protocol.KindDone {
			c.logger.Info("agent done", "name", c.name)
			return nil
		}
	}
}

func (c *Client) dispatch(req protocol.Request) (string, error) {
	switch req.Kind {
	case protocol.KindReset:
		return protocol.ReplyOK, c.agent.Reset(req.Reset)
	case protocol.KindSuggestion:
		return protocol.ReplyOK, c.agent.Suggestion(req.Suggestion)
	case protocol.KindAccusation:
		return protocol.ReplyOK, c.agent.Accusation(req.Accusation)
	case protocol.KindSuggest:
		t, err := c.agent.Suggest()
		if err != nil {
			return "", err
		}
		return protocol.FormatSuggest(t), nil
	case protocol.KindAccuse:
		t, ok, err := c.agent.Accuse()
		if err != nil {
			return "", err
		}
		return protocol.FormatAccuse(t, ok), nil
	case protocol.KindDisprove:
		shown, ok, err := c.agent.Disprove(req.Asker, req.Triplet)
		if err != nil {
			return "", err
		}
		return protocol.FormatShow(shown, ok), nil
	case protocol.KindDone:
		return protocol.ReplyDead, nil
	default:
		return "", fmt.Errorf("unhandled message kind %s", req.Kind)
	}
}

func writeLine(w io.Writer, line string) error {
	_, err := io.WriteString(w, line)
	return err
}
