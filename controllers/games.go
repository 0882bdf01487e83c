package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/bingo-hall/game"
)

const (
	defaultHistoryPage = 20
	maxHistoryPage     = 200
)

// GameController exposes the round engine over HTTP.
type GameController struct {
	manager *game.Manager
}

func NewGameController(m *game.Manager) *GameController {
	return &GameController{manager: m}
}

// respond writes {success, message, data} with a status derived from err.
func respond(c *gin.Context, okStatus int, message string, data any, err error) {
	code := okStatus
	if err != nil {
		code = statusFor(err)
	}
	c.JSON(code, game.NewResult(message, data, err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidTicket):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNoActiveRound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrRoundBusy), game.IsRoundEnd(err):
		return http.StatusConflict
	case errors.Is(err, game.ErrNotReady):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// State returns the sanitized snapshot of the current round.
func (gc *GameController) State(c *gin.Context) {
	respond(c, http.StatusOK, "current state", gc.manager.Snapshot(), nil)
}

// History returns archived rounds, newest first.
func (gc *GameController) History(c *gin.Context) {
	limit := defaultHistoryPage
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, game.NewResult("", nil, errors.New("limit must be a positive integer")))
			return
		}
		limit = min(n, maxHistoryPage)
	}
	respond(c, http.StatusOK, "history", gc.manager.History(limit), nil)
}

type playRequest struct {
	GameID string `json:"gameId"`
}

// Play requests the current round to start after the countdown.
func (gc *GameController) Play(c *gin.Context) {
	var req playRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, game.NewResult("", nil, err))
			return
		}
	}

	out, err := gc.manager.RequestPlay(c.Request.Context(), req.GameID)
	if err == nil && out.Queued {
		respond(c, http.StatusAccepted, "play queued until a cashier and a display are connected", out, nil)
		return
	}
	respond(c, http.StatusOK, "countdown started", out, err)
}

// Start begins drawing immediately, skipping the countdown.
func (gc *GameController) Start(c *gin.Context) {
	err := gc.manager.StartNow(c.Request.Context())
	respond(c, http.StatusOK, "drawing started", gc.manager.Snapshot(), err)
}

// Draw draws one ball on demand.
func (gc *GameController) Draw(c *gin.Context) {
	ball, err := gc.manager.DrawOne(c.Request.Context())
	var data any
	if err == nil {
		data = gin.H{"number": ball, "state": gc.manager.Snapshot()}
	}
	respond(c, http.StatusOK, "ball drawn", data, err)
}

// Pause stops automatic drawing.
func (gc *GameController) Pause(c *gin.Context) {
	err := gc.manager.Pause(c.Request.Context())
	respond(c, http.StatusOK, "round paused", gc.manager.Snapshot(), err)
}

// Resume restarts automatic drawing of a paused round.
func (gc *GameController) Resume(c *gin.Context) {
	err := gc.manager.Resume(c.Request.Context())
	respond(c, http.StatusOK, "round resumed", gc.manager.Snapshot(), err)
}

// Reset archives the current round and opens a fresh one.
func (gc *GameController) Reset(c *gin.Context) {
	snap, err := gc.manager.ResetRound(c.Request.Context())
	respond(c, http.StatusOK, "round reset", snap, err)
}
