package net

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// Client is a participant connected to a host hub.
type Client struct {
	board *state.Board
	conn  *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Dial connects to the hub at addr (host:port) and syncs into board.
func Dial(ctx context.Context, addr string, board *state.Board) (*Client, error) {
	url := "ws://" + addr + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not reach host %s: %w", addr, err)
	}
	logging.Logger().Info("net: connected to host", "addr", addr, "local", conn.LocalAddr().String())
	return &Client{board: board, conn: conn}, nil
}

// LocalAddr returns the client's side of the connection.
func (c *Client) LocalAddr() string { return c.conn.LocalAddr().String() }

// Send delivers a locally produced op to the host. Wire it to
// state.Board.OnLocalOp on clients.
func (c *Client) Send(op state.Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.conn.WriteJSON(Message{Type: TypeOps, Ops: []state.Op{op}}); err != nil {
		return fmt.Errorf("send op %s: %w", op.ID, err)
	}
	return nil
}

// Run applies everything the host sends until the connection ends. It
// returns nil after Close.
func (c *Client) Run() error {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("host connection: %w", err)
		}
		applied := 0
		for _, op := range msg.Ops {
			if c.board.Apply(op) {
				applied++
			}
		}
		logging.Logger().Debug("net: received", "type", msg.Type, "ops", len(msg.Ops), "applied", applied)
	}
}

// Close ends the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
