package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/friendfinder/internal/config"
	"github.com/zeusync/friendfinder/internal/core/events/bus"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/internal/core/tracker"
	"github.com/zeusync/friendfinder/internal/host"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Server accepts a single host plugin connection on /hud and feeds its frames
// into the event bus.
type Server struct {
	config   config.BridgeConfig
	bus      bus.EventBus
	tracker  *tracker.Tracker
	logger   log.Log
	upgrader websocket.Upgrader

	mu       sync.Mutex
	attached bool
	conn     *websocket.Conn
}

func NewServer(cfg config.BridgeConfig, b bus.EventBus, t *tracker.Tracker, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		config:  cfg,
		bus:     b,
		tracker: t,
		logger:  logger.With(log.String("component", "bridge")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the HTTP routes of the bridge.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /hud", s.handleHUD)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenFailed, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down and
// disconnects the attached host.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Bridge listening", log.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: %w", ErrServerStopped, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.disconnect()
		err := srv.Shutdown(shutdownCtx)
		s.logger.Info("Bridge stopped")
		return err
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	attached := s.attached
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":        "ok",
		"host_attached": attached,
	})
}

func (s *Server) handleHUD(w http.ResponseWriter, r *http.Request) {
	if !s.reserve() {
		s.logger.Warn("Rejected host connection", log.String("remote", r.RemoteAddr), log.Error(ErrHostAttached))
		http.Error(w, ErrHostAttached.Error(), http.StatusConflict)
		return
	}
	defer s.release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	logger := s.logger.With(log.String("remote", conn.RemoteAddr().String()))
	logger.Info("Host attached")
	defer logger.Info("Host detached")

	s.serveSession(conn, logger)
}

func (s *Server) serveSession(conn *websocket.Conn, logger log.Log) {
	conn.SetReadLimit(s.config.ReadLimit)
	sess := &session{conn: conn, writeTimeout: s.config.WriteTimeout}

	hooks, err := host.Register(s.bus, s.tracker, sess, logger)
	if err != nil {
		logger.Error("Failed to register host hooks", log.Error(err))
		return
	}
	defer func() {
		if err := hooks.Close(); err != nil {
			logger.Warn("Failed to unregister host hooks", log.Error(err))
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Host connection lost", log.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			s.reject(sess, logger, fmt.Errorf("%w: expected a text frame", ErrInvalidFrame))
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.reject(sess, logger, fmt.Errorf("%w: %w", ErrInvalidFrame, err))
			continue
		}
		eventType, payload, err := decodeFrame(env)
		if err != nil {
			s.reject(sess, logger, err)
			continue
		}

		if err := s.bus.Publish(bus.NewEvent(eventType, "bridge", payload)); err != nil {
			logger.Warn("Host event failed", log.String("event", eventType), log.Error(err))
		}
	}
}

func (s *Server) reject(sess *session, logger log.Log, err error) {
	logger.Debug("Rejected host frame", log.Error(err))
	if werr := sess.replyError(err); werr != nil {
		logger.Warn("Failed to send error frame", log.Error(werr))
	}
}

func (s *Server) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached {
		return false
	}
	s.attached = true
	return true
}

func (s *Server) release() {
	s.mu.Lock()
	s.attached = false
	s.conn = nil
	s.mu.Unlock()
}

func (s *Server) disconnect() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "bridge shutting down")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.Close()
}
