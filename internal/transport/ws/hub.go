package ws

import (
	"sync"

	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
)

// Hub tracks the active websocket sessions for a transport instance.
type Hub struct {
	logger   *logging.Logger
	sessions sync.Map // map[string]*Session
}

// NewHub builds a fresh session hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger: logger,
	}
}

// Register adds a new session to the hub.
func (h *Hub) Register(session *Session) {
	if session == nil {
		return
	}
	h.sessions.Store(session.ID(), session)
}

// Unregister removes the session from the hub.
func (h *Hub) Unregister(id string) {
	if id == "" {
		return
	}
	h.sessions.Delete(id)
}

// Broadcast sends the frame to every connected session. Delivery is best
// effort: a failing session is dropped, never retried.
func (h *Hub) Broadcast(data []byte) {
	h.sessions.Range(func(key, value any) bool {
		session, ok := value.(*Session)
		if !ok {
			return true
		}
		if err := session.Send(data); err != nil {
			if h.logger != nil {
				h.logger.WarnTag("WebSocket", "dropping session %s: %v", session.ID(), err)
			}
			session.Close(err)
			h.sessions.Delete(key)
		}
		return true
	})
}

// CloseAll terminates all active sessions.
func (h *Hub) CloseAll(reason error) {
	if reason == nil {
		reason = ErrSessionShutdown
	}

	h.sessions.Range(func(key, value any) bool {
		if session, ok := value.(*Session); ok {
			session.Close(reason)
		}
		h.sessions.Delete(key)
		return true
	})
}

// Count exposes the number of active websocket sessions.
func (h *Hub) Count() int {
	count := 0
	h.sessions.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}
