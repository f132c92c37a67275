package spectate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Server exposes a Hub over HTTP:
//
//	GET /snapshot           latest frame of every source (JSON array, gzip)
//	GET /snapshot?source=x  latest frame of one source
//	GET /ws                 websocket stream of frames
type Server struct {
	hub      *Hub
	log      *log.Logger
	upgrader websocket.Upgrader
	http     *http.Server
}

// NewServer creates a spectator server for hub.
func NewServer(hub *Hub, logger *log.Logger) *Server {
	return &Server{
		hub: hub,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // read-only stream
		},
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/snapshot", gzhttp.GzipHandler(s.SnapshotHandler()))
	mux.HandleFunc("/ws", s.WSHandler())
	return mux
}

// Start listens on addr and serves in the background.
// It returns the bound address, useful when addr has port 0.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("spectate: cannot listen on %s: %w", addr, err)
	}

	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("spectator server error", "error", err)
		}
	}()

	s.log.Info("spectator server listening", "address", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Shutdown disconnects spectators and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// SnapshotHandler serves the latest frames.
func (s *Server) SnapshotHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body []byte
		if source := r.URL.Query().Get("source"); source != "" {
			frame, ok := s.hub.Latest(source)
			if !ok {
				http.Error(rw, "unknown source", http.StatusNotFound)
				return
			}
			body = frame
		} else {
			var buf bytes.Buffer
			buf.WriteByte('[')
			for i, frame := range s.hub.Snapshot() {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.Write(frame)
			}
			buf.WriteByte(']')
			body = buf.Bytes()
		}

		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(body)
	}
}

// WSHandler streams frames to one websocket spectator until either side
// closes. Messages from the spectator are read and discarded.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, frames := s.hub.Subscribe()
		defer s.hub.Unsubscribe(id)
		s.log.Debug("spectator joined", "id", id, "remote", r.RemoteAddr)

		// Reader goroutine: needed to process pongs and notice the
		// spectator leaving.
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(pingPeriod)
		defer ping.Stop()

		for {
			select {
			case <-gone:
				s.log.Debug("spectator left", "id", id)
				return
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case frame, ok := <-frames:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
						time.Now().Add(time.Second))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			}
		}
	}
}
