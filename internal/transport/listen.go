package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/roach88/speedclue/internal/protocol"
)

// ErrDuplicateName is returned when two agents announce the same name.
var ErrDuplicateName = errors.New("transport: duplicate agent name")

// Greet reads the "<name> alive" line from a fresh connection.
func Greet(conn net.Conn, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	buf := make([]byte, MessageSize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("handshake: %w", err)
	}
	return protocol.ParseHello(string(buf[:n]))
}

// Accept waits for n agents on ln and greets each. Players are returned in
// connection order. On error every accepted connection is closed.
func Accept(ctx context.Context, ln net.Listener, n int, timeout time.Duration, logger *slog.Logger) ([]*RemotePlayer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	players := make([]*RemotePlayer, 0, n)
	names := make(map[string]bool, n)
	fail := func(err error) ([]*RemotePlayer, error) {
		for _, p := range players {
			p.Close()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	for len(players) < n {
		conn, err := ln.Accept()
		if err != nil {
			return fail(fmt.Errorf("accept: %w", err))
		}
		name, err := Greet(conn, timeout)
		if err != nil {
			conn.Close()
			return fail(err)
		}
		if names[name] {
			conn.Close()
			return fail(fmt.Errorf("%w: %q", ErrDuplicateName, name))
		}
		names[name] = true
		players = append(players, NewRemotePlayer(name, conn, timeout, logger))
		logger.Info("agent joined", "name", name, "addr", conn.RemoteAddr().String(), "joined", len(players), "want", n)
	}
	return players, nil
}

// Dial connects an agent to a referee.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}
