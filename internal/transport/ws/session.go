package ws

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
)

const defaultCloseTimeout = 5 * time.Second

// Session encapsulates the lifecycle of a single authenticated push
// subscriber. The channel is fan-out only; inbound frames are drained to
// detect disconnects but carry no request traffic.
type Session struct {
	id     string
	userID uint
	conn   *Connection
	logger *logging.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc

	closed atomic.Bool
}

// NewSession constructs a managed websocket session.
func NewSession(parent context.Context, id string, userID uint, conn *Connection, logger *logging.Logger) *Session {
	sessionCtx, cancel := context.WithCancelCause(parent)
	return &Session{
		id:     id,
		userID: userID,
		conn:   conn,
		logger: logger,
		ctx:    sessionCtx,
		cancel: cancel,
	}
}

// Context returns the session context.
func (s *Session) Context() context.Context {
	return s.ctx
}

// ID exposes the session identifier.
func (s *Session) ID() string {
	return s.id
}

// UserID exposes the authenticated subject.
func (s *Session) UserID() uint {
	return s.userID
}

// Send delivers one event frame to the client, best effort.
func (s *Session) Send(data []byte) error {
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Run blocks reading frames until the peer disconnects, then invokes
// onDone.
func (s *Session) Run(onDone func(error)) {
	var runErr error
	defer func() {
		s.Close(runErr)
		if onDone != nil {
			onDone(runErr)
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				runErr = err
			}
			return
		}
	}
}

// Close terminates the session; no further events are delivered.
func (s *Session) Close(reason error) {
	if reason == nil {
		reason = ErrSessionShutdown
	}

	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	if s.cancel != nil {
		s.cancel(reason)
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil && s.logger != nil {
			s.logger.WarnTag("WebSocket", "session %s connection close failed: %v", s.id, err)
		}
	}
}
