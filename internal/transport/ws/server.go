package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ghelioth/les-bons-artisants-test/internal/domain/catalog"
	"github.com/ghelioth/les-bons-artisants-test/internal/domain/eventbus"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/logging"
	"github.com/ghelioth/les-bons-artisants-test/internal/platform/observability"
)

// CredentialValidator checks the bearer token presented at handshake time
// and returns the authenticated subject.
type CredentialValidator func(ctx context.Context, token string) (uint, error)

// ServerConfig stores the settings required to expose the push channel.
type ServerConfig struct {
	Addr             string
	Path             string
	HandshakeTimeout time.Duration
}

// Server owns the push channel: it upgrades authenticated connections into
// sessions and fans catalog mutation events out to all of them.
type Server struct {
	cfg      ServerConfig
	hub      *Hub
	bus      *eventbus.Bus
	validate CredentialValidator
	logger   *logging.Logger

	upgrader *websocket.Upgrader
	httpSrv  *http.Server
	handler  func(ev catalog.Event)
}

// NewServer builds a push channel server.
func NewServer(cfg ServerConfig, bus *eventbus.Bus, validate CredentialValidator, logger *logging.Logger) *Server {
	if cfg.Path == "" {
		cfg.Path = "/ws"
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}

	return &Server{
		cfg:      cfg,
		hub:      NewHub(logger),
		bus:      bus,
		validate: validate,
		logger:   logger,
		upgrader: &websocket.Upgrader{
			HandshakeTimeout: cfg.HandshakeTimeout,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
}

// Handler exposes the upgrade endpoint, mainly so tests can mount it on an
// arbitrary listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.handleUpgrade)
	return mux
}

// Subscribe attaches the server to the mutation event topic. Each event is
// encoded once and broadcast to every connected session.
func (s *Server) Subscribe() error {
	if s.handler != nil {
		return nil
	}
	s.handler = func(ev catalog.Event) {
		data, err := sonic.Marshal(ev)
		if err != nil {
			if s.logger != nil {
				s.logger.ErrorTag("WebSocket", "encode event %s: %v", ev.Type, err)
			}
			return
		}
		s.hub.Broadcast(data)
		observability.RecordMetric(context.Background(), "push.events.broadcast", 1,
			map[string]string{"component": "transport.websocket", "event": ev.Type})
	}
	return s.bus.Subscribe(catalog.Topic, s.handler)
}

// Start boots the HTTP server and listens for websocket upgrades until the
// context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.httpSrv != nil {
		return nil
	}
	if err := s.Subscribe(); err != nil {
		return err
	}

	s.httpSrv = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), defaultCloseTimeout, context.Cause(ctx))
			defer cancel()
			_ = s.httpSrv.Shutdown(shutdownCtx)
			s.hub.CloseAll(ErrSessionShutdown)
		}()
	}

	if s.logger != nil {
		s.logger.InfoTag("WebSocket", "listening on %s%s", s.cfg.Addr, s.cfg.Path)
	}

	err := s.httpSrv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the websocket server and active sessions.
func (s *Server) Stop() error {
	if s.handler != nil {
		_ = s.bus.Unsubscribe(catalog.Topic, s.handler)
		s.handler = nil
	}
	if s.httpSrv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), defaultCloseTimeout, ErrSessionShutdown)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		return err
	}

	s.hub.CloseAll(ErrSessionShutdown)
	s.httpSrv = nil
	return nil
}

// Count exposes the number of connected sessions.
func (s *Server) Count() int {
	return s.hub.Count()
}

func (s *Server) handleUpgrade(w http.ResponseWriter, req *http.Request) {
	spanCtx, spanEnd := observability.StartSpan(req.Context(), "transport.websocket", "handshake")
	var spanErr error
	defer func() {
		spanEnd(spanErr)
	}()

	// The credential is checked before upgrading so an auth failure is an
	// HTTP level rejection, distinguishable from message level failures.
	token := bearerToken(req)
	userID, err := s.validate(spanCtx, token)
	if err != nil {
		spanErr = err
		if s.logger != nil {
			s.logger.WarnTag("WebSocket", "handshake rejected: %v", err)
		}
		http.Error(w, "invalid or missing credential", http.StatusUnauthorized)
		return
	}

	socket, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		spanErr = err
		if s.logger != nil {
			s.logger.ErrorTag("WebSocket", "upgrade failed: %v", err)
		}
		return
	}

	// Sessions outlive the upgrade request; net/http cancels req.Context()
	// the moment this handler returns, hijacked or not, so the session must
	// not inherit it.
	conn := NewConnection(uuid.NewString(), socket)
	session := NewSession(context.Background(), conn.ID(), userID, conn, s.logger)
	s.hub.Register(session)

	if s.logger != nil {
		s.logger.InfoTag("WebSocket", "session %s opened for user %d", session.ID(), userID)
	}

	go session.Run(func(runErr error) {
		s.hub.Unregister(session.ID())
		if runErr != nil && s.logger != nil {
			s.logger.WarnTag("WebSocket", "session %s ended abnormally: %v", session.ID(), runErr)
		}
	})
}

func bearerToken(req *http.Request) string {
	if token := req.URL.Query().Get("token"); token != "" {
		return token
	}
	header := req.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
