package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

// Subscription is one live push channel. Close it when done; after Close
// the handler is never called again.
type Subscription struct {
	conn *websocket.Conn

	closeOnce sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// Subscribe opens the push channel at wsURL authenticated with token and
// feeds every decoded event to handler from a dedicated goroutine.
// Frames that do not decode are skipped.
func Subscribe(ctx context.Context, wsURL, token string, handler func(catalog.Event)) (*Subscription, error) {
	const op = "client.Subscribe"

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.New(errors.KindAuth, op, "push channel rejected credential")
		}
		return nil, errors.Wrap(errors.KindTransport, op, "dial push channel", err)
	}

	sub := &Subscription{
		conn: conn,
		done: make(chan struct{}),
	}
	go sub.readLoop(handler)
	return sub, nil
}

func (s *Subscription) readLoop(handler func(catalog.Event)) {
	defer close(s.done)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}

		var event catalog.Event
		if err := sonic.Unmarshal(payload, &event); err != nil {
			continue
		}
		if event.Type == "" {
			continue
		}
		handler(event)
	}
}

// Close tears the channel down and waits for the read loop to stop.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
		<-s.done
	})
	return err
}

// Done is closed once the read loop has stopped, whether by Close or by
// the server going away.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err reports why the read loop stopped, nil before it has.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
