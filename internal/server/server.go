// Package server exposes asteroid generation over a websocket.
//
// Clients send one JSON request per message:
//
//	{"type": "generate", "params": {"subdivisions": 3, "globalSeed": 42}}
//	{"type": "field", "count": 8, "params": {...}}
//
// Params overlay the server defaults; fields left out keep their default.
// Each request is answered with an "asteroid", "field" or "error" message.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/rockforge/internal/config"
	"github.com/Faultbox/rockforge/internal/forge"
	"github.com/Faultbox/rockforge/internal/logger"
	"github.com/Faultbox/rockforge/pkg/asteroid"
)

// MaxFieldCount bounds the asteroids generated for one field request.
const MaxFieldCount = 64

// Message types.
const (
	TypeGenerate = "generate"
	TypeField    = "field"
	TypeAsteroid = "asteroid"
	TypeError    = "error"
)

// Request is a client message.
type Request struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
	Count  int             `json:"count,omitempty"`
}

// AsteroidMessage carries one generated asteroid.
type AsteroidMessage struct {
	Type  string         `json:"type"`
	Mesh  asteroid.Mesh  `json:"mesh"`
	Stats asteroid.Stats `json:"stats"`
}

// FieldMessage carries a generated field.
type FieldMessage struct {
	Type      string            `json:"type"`
	Seed      int32             `json:"seed"`
	Asteroids []AsteroidMessage `json:"asteroids"`
}

// ErrorMessage reports a rejected request. The connection stays open.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Server answers generation requests on /ws.
type Server struct {
	cfg      config.ServerConfig
	defaults asteroid.GenerationParams
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a server. defaults fill in every parameter a request omits.
func New(cfg config.ServerConfig, defaults asteroid.GenerationParams) *Server {
	return &Server{
		cfg:      cfg,
		defaults: defaults.Clone(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // tools and local pages connect from anywhere
			},
		},
		log:     logger.Named("server"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then closes open sockets.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("shutdown", zap.Error(err))
		}
		s.closeClients()
	}()

	s.log.Info("listening", zap.String("addr", s.cfg.Addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

// Clients returns the number of open websocket connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.Clients(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	if s.cfg.ReadLimit > 0 {
		conn.SetReadLimit(s.cfg.ReadLimit)
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	log := s.log.With(zap.String("remote", r.RemoteAddr))
	log.Debug("client connected")

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				if werr := s.write(conn, ErrorMessage{Type: TypeError, Error: "malformed request: " + err.Error()}); werr != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("websocket read", zap.Error(err))
			}
			log.Debug("client disconnected")
			return
		}

		reply := s.handle(r.Context(), req)
		if err := s.write(conn, reply); err != nil {
			log.Warn("websocket write", zap.Error(err))
			return
		}
	}
}

func (s *Server) handle(ctx context.Context, req Request) any {
	params, err := s.params(req.Params)
	if err != nil {
		return ErrorMessage{Type: TypeError, Error: err.Error()}
	}

	switch req.Type {
	case TypeGenerate:
		res, err := forge.New(params).Generate()
		if err != nil {
			return ErrorMessage{Type: TypeError, Error: err.Error()}
		}
		return asteroidMessage(res)

	case TypeField:
		if req.Count < 1 || req.Count > MaxFieldCount {
			return ErrorMessage{Type: TypeError, Error: fmt.Sprintf("field count %d outside [1, %d]", req.Count, MaxFieldCount)}
		}
		field, err := forge.GenerateField(ctx, params, req.Count, 0)
		if err != nil {
			return ErrorMessage{Type: TypeError, Error: err.Error()}
		}
		msg := FieldMessage{Type: TypeField, Seed: field.Seed, Asteroids: make([]AsteroidMessage, len(field.Asteroids))}
		for i, res := range field.Asteroids {
			msg.Asteroids[i] = asteroidMessage(res)
		}
		return msg

	default:
		return ErrorMessage{Type: TypeError, Error: fmt.Sprintf("unknown request type %q", req.Type)}
	}
}

// params overlays raw onto a private copy of the defaults.
func (s *Server) params(raw json.RawMessage) (asteroid.GenerationParams, error) {
	params := s.defaults.Clone()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return params, fmt.Errorf("invalid params: %w", err)
		}
	}
	if limit := s.cfg.MaxSubdivision; limit > 0 && params.SubdivisionLevel > limit {
		return params, fmt.Errorf("subdivisions %d exceeds server limit %d", params.SubdivisionLevel, limit)
	}
	return params, nil
}

func (s *Server) write(conn *websocket.Conn, v any) error {
	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	return conn.WriteJSON(v)
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
}

func asteroidMessage(res *asteroid.Result) AsteroidMessage {
	return AsteroidMessage{Type: TypeAsteroid, Mesh: res.Mesh, Stats: res.Stats}
}
