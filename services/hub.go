package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bellapacxx/bingo-hall/game"
	"github.com/bellapacxx/bingo-hall/utils/metrics"
)

// Role is what a websocket observer is allowed to see and do.
type Role string

const (
	RoleCashier Role = "cashier"
	RoleDisplay Role = "display"
	RoleAdmin   Role = "admin"
)

// ParseRole validates the role query parameter.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCashier, RoleDisplay, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Allows reports whether the role may perform action. Displays only
// read; starting and resetting rounds is for admins.
func (r Role) Allows(action string) bool {
	switch action {
	case "state":
		return true
	case "start", "reset":
		return r == RoleAdmin
	default:
		return r == RoleAdmin || r == RoleCashier
	}
}

// Envelope is the frame pushed to observers.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub tracks connected observers by role. It is the engine's presence
// signal and its websocket publish sink, and it relays observer
// commands to the engine.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	counts  map[Role]int

	manager  *game.Manager
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

// NewHub builds a Hub. An empty allowedOrigins accepts any origin.
func NewHub(allowedOrigins []string, log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Hub{
		clients: make(map[*Client]bool),
		counts:  make(map[Role]int),
		log:     log,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)}
	return h
}

// Bind attaches the engine the hub reports to. It must be called
// before the first connection is served.
func (h *Hub) Bind(m *game.Manager) {
	h.manager = m
}

func (h *Hub) CashierCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[RoleCashier]
}

func (h *Hub) DisplayCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[RoleDisplay]
}

// Counts returns connected observers per role.
func (h *Hub) Counts() map[Role]int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[Role]int, len(h.counts))
	for r, n := range h.counts {
		out[r] = n
	}
	return out
}

// Publish pushes an event to every observer. Slow observers miss
// frames instead of blocking the engine.
func (h *Hub) Publish(event string, payload any) error {
	b, err := json.Marshal(Envelope{Type: event, Data: payload})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Warnw("dropping frame for slow observer", "client", c.id, "role", c.role, "event", event)
		}
	}
	return nil
}

// Serve upgrades the request and runs the client until it disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, role Role) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	c := newClient(h, conn, role)
	h.register(c)

	go c.writePump()
	go c.readPump()
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.counts[c.role]++
	n := h.counts[c.role]
	h.mu.Unlock()

	metrics.SetObservers(string(c.role), n)
	h.log.Infow("observer connected", "client", c.id, "role", c.role, "count", n)

	if h.manager != nil {
		c.reply(Envelope{Type: game.EventGameState, Data: h.manager.Snapshot()})
		h.manager.ObserversChanged()
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	h.counts[c.role]--
	n := h.counts[c.role]
	c.Close()
	h.mu.Unlock()

	metrics.SetObservers(string(c.role), n)
	h.log.Infow("observer disconnected", "client", c.id, "role", c.role, "count", n)

	if h.manager != nil {
		h.manager.ObserversChanged()
	}
}

// Close disconnects every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(set) == 0 || set["*"] || origin == "" || set[origin]
	}
}
