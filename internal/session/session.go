// Package session implements C7: the per-connection driver that reads,
// decodes, parses, executes and replies in a loop until the connection
// closes or a protocol error forces a teardown.
package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/flonle/rediskv/internal/command"
	"github.com/flonle/rediskv/internal/handler"
	"github.com/flonle/rediskv/internal/respio"
)

type Session struct {
	conn    net.Conn
	handler *handler.Handler
	log     *zap.Logger
}

func New(conn net.Conn, h *handler.Handler, log *zap.Logger) *Session {
	return &Session{
		conn:    conn,
		handler: h,
		log:     log.With(zap.String("remote_addr", conn.RemoteAddr().String())),
	}
}

// Run drives the connection until it closes or a protocol error is hit. It
// never returns an error: every failure mode ends in tearing the connection
// down, which is all a caller needs to know.
//
// Decoding happens on its own goroutine (readLoop) rather than inline in this
// loop. A dispatched command can block indefinitely inside BLPOP, and while
// it does, this goroutine is not around to notice the socket close; readLoop
// is, so it owns cancelling ctx the moment it sees one (§5 Cancellation, §4.7).
func (s *Session) Run() {
	defer s.conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan [][]byte)
	go s.readLoop(ctx, frames, cancel)

	var enc respio.Encoder
	for frame := range frames {
		reply := s.dispatch(ctx, frame)

		if _, err := s.conn.Write(enc.Encode(reply)); err != nil {
			s.log.Debug("write error", zap.Error(err))
			return
		}
	}
}

// readLoop decodes frames off the connection and hands them to Run one at a
// time, preserving arrival order. It cancels ctx as soon as the connection
// closes or a protocol error forces a teardown, independent of whatever Run
// is doing with the previous frame.
func (s *Session) readLoop(ctx context.Context, frames chan<- [][]byte, cancel context.CancelFunc) {
	defer close(frames)
	defer cancel()

	reader := bufio.NewReader(s.conn)
	for {
		frame, err := respio.DecodeCommand(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			if errors.Is(err, respio.ErrProtocol) {
				s.log.Debug("protocol error, closing without reply", zap.Error(err))
				return
			}
			s.log.Debug("read error", zap.Error(err))
			return
		}
		if len(frame) == 0 {
			continue // "*0\r\n" carries no command name; nothing to dispatch
		}

		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) dispatch(ctx context.Context, frame [][]byte) respio.Reply {
	cmd, err := command.Parse(frame)
	if err != nil {
		return respio.Err(err.Error())
	}
	return s.handler.Execute(ctx, cmd)
}
