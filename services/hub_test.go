package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-hall/game"
)

func newTestHub(t *testing.T) (*Hub, *game.Manager, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(nil, nil)
	m := game.NewManager(game.Config{Presence: hub, Publisher: hub})
	hub.Bind(m)
	require.NoError(t, m.Init(context.Background()))

	r := gin.New()
	r.GET("/ws", HandleWebSocket(hub))
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		m.Close()
		hub.Close()
		srv.Close()
	})
	return hub, m, srv
}

func dialRaw(t *testing.T, srv *httptest.Server, role string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?role=" + role
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// dial connects and waits for the state frame sent once the hub has
// registered the observer.
func dial(t *testing.T, srv *httptest.Server, role string) *websocket.Conn {
	t.Helper()
	conn := dialRaw(t, srv, role)
	readFrame(t, conn, ofType(game.EventGameState))
	return conn
}

// readFrame reads until a frame satisfies match.
func readFrame(t *testing.T, conn *websocket.Conn, match func(map[string]any) bool) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, b, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame map[string]any
		require.NoError(t, json.Unmarshal(b, &frame))
		if match(frame) {
			return frame
		}
	}
}

func ofType(typ string) func(map[string]any) bool {
	return func(f map[string]any) bool { return f["type"] == typ }
}

func resultFor(requestID string) func(map[string]any) bool {
	return func(f map[string]any) bool { return f["type"] == "result" && f["requestId"] == requestID }
}

func TestHubCountsObserversByRole(t *testing.T) {
	hub, _, srv := newTestHub(t)

	dial(t, srv, "cashier")
	display := dial(t, srv, "display")
	dial(t, srv, "admin")

	require.Eventually(t, func() bool {
		return hub.CashierCount() == 1 && hub.DisplayCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.Counts()[RoleAdmin])

	display.Close()
	require.Eventually(t, func() bool { return hub.DisplayCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.CashierCount())
}

func TestHubRejectsUnknownRole(t *testing.T) {
	_, _, srv := newTestHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?role=player"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHubSendsStateOnConnect(t *testing.T) {
	_, m, srv := newTestHub(t)

	conn := dialRaw(t, srv, "display")
	frame := readFrame(t, conn, ofType(game.EventGameState))
	data, ok := frame["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, m.CurrentRound(), data["gameId"])
}

func TestHubRelaysCashierCommands(t *testing.T) {
	_, m, srv := newTestHub(t)
	cashier := dial(t, srv, "cashier")
	display := dial(t, srv, "display")

	require.NoError(t, cashier.WriteJSON(map[string]any{
		"action":    "sell_ticket",
		"requestId": "r1",
		"ticket": map[string]any{
			"playerName":   "Abebe",
			"luckyNumbers": [][]int{{1, 2, 3, 4, 5, 6}},
			"slipNumber":   "S-1",
		},
	}))

	res := readFrame(t, cashier, resultFor("r1"))
	assert.Equal(t, true, res["success"], res["message"])
	assert.Equal(t, "sell_ticket", res["action"])

	sold := readFrame(t, display, ofType(game.EventTicketSold))
	data := sold["data"].(map[string]any)
	assert.Equal(t, "S-1", data["ticketId"])
	assert.Equal(t, 1, m.Snapshot().TicketCount)
}

func TestHubDisplayIsReadOnly(t *testing.T) {
	_, m, srv := newTestHub(t)
	display := dial(t, srv, "display")

	require.NoError(t, display.WriteJSON(map[string]any{"action": "play", "requestId": "r1"}))
	res := readFrame(t, display, resultFor("r1"))
	assert.Equal(t, false, res["success"])
	assert.Equal(t, errForbidden.Error(), res["message"])
	assert.Equal(t, game.PhaseIdle, m.Snapshot().Phase)

	require.NoError(t, display.WriteJSON(map[string]any{"action": "state", "requestId": "r2"}))
	res = readFrame(t, display, resultFor("r2"))
	assert.Equal(t, true, res["success"])
}

func TestHubResetNeedsAdmin(t *testing.T) {
	_, m, srv := newTestHub(t)
	first := m.CurrentRound()
	cashier := dial(t, srv, "cashier")
	admin := dial(t, srv, "admin")

	require.NoError(t, cashier.WriteJSON(map[string]any{"action": "reset", "requestId": "r1"}))
	res := readFrame(t, cashier, resultFor("r1"))
	assert.Equal(t, false, res["success"])
	assert.Equal(t, first, m.CurrentRound())

	require.NoError(t, admin.WriteJSON(map[string]any{"action": "reset", "requestId": "r2"}))
	res = readFrame(t, admin, resultFor("r2"))
	assert.Equal(t, true, res["success"])
	assert.NotEqual(t, first, m.CurrentRound())
	assert.Len(t, m.History(0), 1)
}

func TestHubMalformedCommand(t *testing.T) {
	_, _, srv := newTestHub(t)
	cashier := dial(t, srv, "cashier")

	require.NoError(t, cashier.WriteMessage(websocket.TextMessage, []byte("{not json")))
	res := readFrame(t, cashier, ofType("result"))
	assert.Equal(t, false, res["success"])
}

func TestHubPresenceReplaysQueuedPlay(t *testing.T) {
	_, m, srv := newTestHub(t)

	out, err := m.RequestPlay(context.Background(), "")
	require.NoError(t, err)
	require.True(t, out.Queued)

	dial(t, srv, "cashier")
	assert.Equal(t, game.PhaseIdle, m.Snapshot().Phase)
	dial(t, srv, "display")

	require.Eventually(t, func() bool {
		return m.Snapshot().Phase == game.PhaseCountingDown
	}, 2*time.Second, 10*time.Millisecond)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"cashier", "display", "admin"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}
	_, err := ParseRole("player")
	assert.Error(t, err)
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := originChecker(nil)
	assert.True(t, open(req("http://evil.example")))

	strict := originChecker([]string{"http://hall.local"})
	assert.True(t, strict(req("http://hall.local")))
	assert.True(t, strict(req("")))
	assert.False(t, strict(req("http://evil.example")))
}
