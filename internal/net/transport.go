// Package net keeps boards in sync over websockets and finds hosts on the
// local network with mDNS. The host runs a Hub; every other participant
// dials it with a Client. Both sides exchange state.Op values, so a stroke
// drawn or erased anywhere reaches every board as insert and delete ops.
package net

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// ErrClosed is returned when sending on a closed connection.
var ErrClosed = errors.New("connection closed")

// Message is the wire frame. Snapshot frames carry the whole board for a
// newly joined peer; op frames carry incremental changes.
type Message struct {
	Type string     `json:"type"`
	Ops  []state.Op `json:"ops"`
}

const (
	TypeSnapshot = "snapshot"
	TypeOps      = "ops"

	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Peer is one connected participant on the host side.
type Peer struct {
	Conn *websocket.Conn
	Addr string
	send chan Message
}

// Hub is run by the host. It owns the authoritative board, hands every new
// peer a snapshot, applies ops peers send and relays them to everyone else.
type Hub struct {
	Board *state.Board

	upgrader websocket.Upgrader
	mu       sync.RWMutex
	peers    map[string]*Peer
	closed   bool
}

// NewHub returns a hub serving board.
func NewHub(board *state.Board) *Hub {
	return &Hub{
		Board: board,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[string]*Peer),
	}
}

// Handler returns the HTTP handler exposing the hub at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return mux
}

// ServeHTTP upgrades the request and runs the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("net: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	p := &Peer{Conn: conn, Addr: conn.RemoteAddr().String(), send: make(chan Message, sendBuffer)}
	if !h.add(p) {
		conn.Close()
		return
	}
	go h.writeLoop(p)
	h.readLoop(p)
}

// add registers p with the board snapshot already queued, so every op
// published afterwards reaches it after the snapshot.
func (h *Hub) add(p *Peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	p.send <- Message{Type: TypeSnapshot, Ops: h.Board.Snapshot()}
	h.peers[p.Addr] = p
	logging.Logger().Info("net: peer connected", "addr", p.Addr)
	return true
}

func (h *Hub) remove(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.peers[p.Addr]; ok && cur == p {
		delete(h.peers, p.Addr)
		close(p.send)
		logging.Logger().Info("net: peer disconnected", "addr", p.Addr)
	}
}

func (h *Hub) readLoop(p *Peer) {
	defer func() {
		h.remove(p)
		p.Conn.Close()
	}()
	for {
		var msg Message
		if err := p.Conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Logger().Debug("net: read ended", "addr", p.Addr, "err", err)
			}
			return
		}
		var fresh []state.Op
		for _, op := range msg.Ops {
			if h.Board.Apply(op) {
				fresh = append(fresh, op)
			}
		}
		if len(fresh) > 0 {
			h.broadcast(Message{Type: TypeOps, Ops: fresh}, p)
		}
	}
}

func (h *Hub) writeLoop(p *Peer) {
	for msg := range p.send {
		p.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := p.Conn.WriteJSON(msg); err != nil {
			logging.Logger().Warn("net: write failed", "addr", p.Addr, "err", err)
			p.Conn.Close()
			for range p.send {
			}
			return
		}
	}
}

// broadcast queues msg for every peer except exclude. A peer whose queue is
// full misses the message.
func (h *Hub) broadcast(msg Message, exclude *Peer) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, p := range h.peers {
		if p == exclude {
			continue
		}
		select {
		case p.send <- msg:
		default:
			logging.Logger().Warn("net: peer queue full, dropping ops", "addr", p.Addr, "ops", len(msg.Ops))
		}
	}
}

// Publish relays a locally produced op to every peer. Wire it to
// state.Board.OnLocalOp on the host.
func (h *Hub) Publish(op state.Op) {
	h.broadcast(Message{Type: TypeOps, Ops: []state.Op{op}}, nil)
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every peer. The hub refuses new peers afterwards.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for addr, p := range h.peers {
		p.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
		p.Conn.Close()
		close(p.send)
		delete(h.peers, addr)
	}
	return nil
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Logger().Info("net: host listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("host server on %s: %w", addr, err)
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
