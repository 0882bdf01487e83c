package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bellapacxx/bingo-hall/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 64
	commandTimeout = 10 * time.Second
)

var errForbidden = errors.New("action not allowed for this role")

type Client struct {
	id   string
	role Role
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func newClient(h *Hub, conn *websocket.Conn, role Role) *Client {
	return &Client{
		id:   uuid.NewString(),
		role: role,
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// command is a request sent by an observer.
type command struct {
	Action    string              `json:"action"`
	RequestID string              `json:"requestId,omitempty"`
	GameID    string              `json:"gameId,omitempty"`
	Ticket    *game.TicketRequest `json:"ticket,omitempty"`
}

// commandResult answers a command, to its sender only.
type commandResult struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	RequestID string `json:"requestId,omitempty"`
	game.Result
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.log.Debugw("client disconnected normally", "client", c.id)
			} else {
				c.hub.log.Debugw("client read error", "client", c.id, "error", err)
			}
			return
		}

		func(msg []byte) {
			defer func() {
				if r := recover(); r != nil {
					c.hub.log.Errorw("recovered from panic handling command", "client", c.id, "panic", r)
				}
			}()

			var cmd command
			if err := json.Unmarshal(msg, &cmd); err != nil {
				c.hub.log.Infow("invalid message", "client", c.id, "error", err)
				c.reply(commandResult{Type: "result", Result: game.NewResult("", nil, errors.New("malformed command"))})
				return
			}
			c.reply(c.handle(cmd))
		}(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.log.Debugw("client write error", "client", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handle runs one command against the engine.
func (c *Client) handle(cmd command) commandResult {
	res := commandResult{Type: "result", Action: cmd.Action, RequestID: cmd.RequestID}

	m := c.hub.manager
	if m == nil {
		res.Result = game.NewResult("", nil, game.ErrNoActiveRound)
		return res
	}
	if !c.role.Allows(cmd.Action) {
		res.Result = game.NewResult("", nil, errForbidden)
		return res
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch cmd.Action {
	case "state":
		res.Result = game.NewResult("current state", m.Snapshot(), nil)
	case "sell_ticket":
		if cmd.Ticket == nil {
			res.Result = game.NewResult("", nil, game.ErrInvalidTicket)
			break
		}
		t, err := m.SellTicket(ctx, *cmd.Ticket)
		res.Result = game.NewResult("ticket sold", t, err)
	case "play":
		out, err := m.RequestPlay(ctx, cmd.GameID)
		msg := "countdown started"
		if out.Queued {
			msg = "play queued until a cashier and a display are connected"
		}
		res.Result = game.NewResult(msg, out, err)
	case "start":
		err := m.StartNow(ctx)
		res.Result = game.NewResult("drawing started", nil, err)
	case "draw":
		ball, err := m.DrawOne(ctx)
		var data any
		if err == nil {
			data = map[string]int{"number": ball}
		}
		res.Result = game.NewResult("ball drawn", data, err)
	case "pause":
		res.Result = game.NewResult("round paused", nil, m.Pause(ctx))
	case "resume":
		res.Result = game.NewResult("round resumed", nil, m.Resume(ctx))
	case "reset":
		snap, err := m.ResetRound(ctx)
		res.Result = game.NewResult("round reset", snap, err)
	default:
		c.hub.log.Infow("unknown action", "client", c.id, "action", cmd.Action)
		res.Result = game.NewResult("", nil, errors.New("unknown action"))
	}
	return res
}

// reply queues a frame for this client only.
func (c *Client) reply(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.hub.log.Errorw("encode reply", "client", c.id, "error", err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- b:
	default:
		c.hub.log.Warnw("dropping reply to slow observer", "client", c.id)
	}
}
