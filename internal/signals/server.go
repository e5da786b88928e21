// Package signals exposes the session state to out-of-process consumers.
//
// Clients connect to /ws and receive the current snapshot followed by
// every change. They may send {"type":"replay"}; inbound commands are
// queued and drained by the render loop, so the server never mutates
// scene state itself.
package signals

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
	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/logger"
	"github.com/Faultbox/topo-scene/internal/session"
)

// CommandType identifies an inbound client request.
type CommandType string

const (
	CommandReplay CommandType = "replay"
)

// Command is a request from a client.
type Command struct {
	Type CommandType `json:"type"`
}

// Message is the envelope sent to clients.
type Message struct {
	Type  string           `json:"type"`
	State session.Snapshot `json:"state"`
}

const (
	messageState = "state"

	writeWait      = 5 * time.Second
	commandBacklog = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local consumers only; the listener binds to loopback by default
	},
}

// client is one websocket connection. pending holds at most the newest
// snapshot not yet written.
type client struct {
	conn    *websocket.Conn
	pending chan session.Snapshot
}

func (c *client) offer(snap session.Snapshot) {
	select {
	case c.pending <- snap:
		return
	default:
	}
	// drop the stale snapshot, keep the newest
	select {
	case <-c.pending:
	default:
	}
	select {
	case c.pending <- snap:
	default:
	}
}

// Server serves session snapshots over HTTP and websocket.
type Server struct {
	log *zap.Logger

	mu          sync.RWMutex
	clients     map[*client]struct{}
	last        session.Snapshot
	placeholder []byte

	commands chan Command
	cancel   func()
	http     *http.Server
}

// New creates a server that mirrors view.
func New(view session.View) *Server {
	s := &Server{
		log:      logger.Named("signals"),
		clients:  make(map[*client]struct{}),
		last:     view.Snapshot(),
		commands: make(chan Command, commandBacklog),
	}
	s.cancel = view.Subscribe(s.broadcast)
	return s
}

// Commands returns the inbound command queue.
func (s *Server) Commands() <-chan Command {
	return s.commands
}

// SetPlaceholder replaces the PNG served at /placeholder.png.
func (s *Server) SetPlaceholder(png []byte) {
	s.mu.Lock()
	s.placeholder = png
	s.mu.Unlock()
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/placeholder.png", s.handlePlaceholder)
	return mux
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown failed", zap.Error(err))
		}
		s.closeClients()
	}()

	s.log.Info("signals server listening", zap.String("addr", ln.Addr().String()))
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving signals: %w", err)
	}
	return nil
}

// Close detaches the server from the session and drops all clients.
func (s *Server) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.closeClients()
}

func (s *Server) broadcast(snap session.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	for c := range s.clients {
		c.offer(snap)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.conn.Close()
		delete(s.clients, c)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, pending: make(chan session.Snapshot, 1)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	c.offer(s.last)
	count := len(s.clients)
	s.mu.Unlock()

	s.log.Debug("client connected", zap.String("remote", r.RemoteAddr), zap.Int("clients", count))

	done := make(chan struct{})
	go s.writeLoop(c, done)
	s.readLoop(c)
	close(done)

	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	conn.Close()

	s.log.Debug("client disconnected", zap.String("remote", r.RemoteAddr))
}

func (s *Server) readLoop(c *client) {
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}

		switch cmd.Type {
		case CommandReplay:
			select {
			case s.commands <- cmd:
			default:
				s.log.Warn("command queue full, dropping", zap.String("type", string(cmd.Type)))
			}
		default:
			s.log.Debug("unknown command", zap.String("type", string(cmd.Type)))
		}
	}
}

func (s *Server) writeLoop(c *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case snap := <-c.pending:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(Message{Type: messageState, State: snap}); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				c.conn.Close()
				return
			}
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.last
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.log.Warn("encoding status failed", zap.Error(err))
	}
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	png := s.placeholder
	s.mu.RUnlock()

	if png == nil {
		http.Error(w, "placeholder not rendered", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
