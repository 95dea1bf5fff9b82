// Package observer exposes a read-only websocket feed of simulation
// snapshots. Subscribers receive the same JSON frame; nothing flows back
// into the simulation, so the feed cannot perturb a run.
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 3 * time.Second
)

// Hub fans one snapshot stream out to all connected subscribers.
type Hub struct {
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local diagnostics feed; no cross-origin policy to enforce.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subs: make(map[*websocket.Conn]struct{}),
	}
}

// SubscriberCount reports the number of connected observers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Handler upgrades an HTTP request to a websocket subscription. The read
// pump exists only to notice disconnects; inbound frames are discarded.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("observer upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		h.mu.Lock()
		h.subs[conn] = struct{}{}
		n := len(h.subs)
		h.mu.Unlock()
		slog.Info("observer connected", "remote", r.RemoteAddr, "subscribers", n)

		go h.readPump(conn)
	}
}

func (h *Hub) readPump(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	_, present := h.subs[conn]
	delete(h.subs, conn)
	n := len(h.subs)
	h.mu.Unlock()

	conn.Close()
	if present {
		slog.Info("observer disconnected", "subscribers", n)
	}
}

// Broadcast marshals v once and sends it to every subscriber. Subscribers
// that fail the write are dropped; a slow observer never blocks the
// simulation loop beyond the write timeout.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("marshaling observer frame", "error", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.drop(c)
		}
	}
}

// Serve runs the observer HTTP server until the context is canceled.
// Routes: /ws for the snapshot feed, /health for liveness checks.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("observer feed listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
