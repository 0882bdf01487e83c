package game

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event names published to observers.
const (
	EventGameState   = "gameState"
	EventBallDrawn   = "ballDrawn"
	EventBonusBall   = "bonusBall"
	EventWinner      = "winner"
	EventGameReset   = "gameReset"
	EventGameStarted = "gameStarted"
	EventGamePaused  = "gamePaused"
	EventGameResumed = "gameResumed"
	EventCountdown   = "countdown"
	EventPlayQueued  = "playQueued"
	EventTicketSold  = "ticketSold"
	EventError       = "error"
)

type BallEvent struct {
	RoundID string `json:"gameId"`
	Number  int    `json:"number"`
	Draw    int    `json:"draw"`
}

type WinnerEvent struct {
	RoundID string `json:"gameId"`
	Winner
}

type PausedEvent struct {
	RoundID string `json:"gameId"`
	Reason  string `json:"reason"`
}

type RoundEvent struct {
	RoundID    string     `json:"gameId"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	DeadlineAt *time.Time `json:"deadlineAt,omitempty"`
}

type CountdownEvent struct {
	RoundID string    `json:"gameId"`
	EndsAt  time.Time `json:"endsAt"`
	Seconds int       `json:"seconds"`
}

type QueuedEvent struct {
	RoundID  string `json:"gameId"`
	Position int    `json:"position"`
}

type TicketSoldEvent struct {
	RoundID    string          `json:"gameId"`
	TicketID   string          `json:"ticketId"`
	PlayerName string          `json:"playerName"`
	Lines      int             `json:"lines"`
	Stake      decimal.Decimal `json:"stake"`
}

type ResetEvent struct {
	PreviousRoundID string `json:"previousGameId"`
	RoundID         string `json:"gameId"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}

// Snapshot is the sanitized full state sent to observers. Ticket
// numbers are not included.
type Snapshot struct {
	RoundID         string          `json:"gameId"`
	Phase           Phase           `json:"phase"`
	IsRunning       bool            `json:"isRunning"`
	Paused          bool            `json:"paused"`
	Ready           bool            `json:"ready"`
	DrawnBalls      []int           `json:"drawnBalls"`
	RecentBalls     []int           `json:"recentBalls"`
	BonusBall       *int            `json:"bonusBall"`
	Winner          *Winner         `json:"winner"`
	DrawCount       int             `json:"drawCount"`
	MaxDraws        int             `json:"maxDraws"`
	RemainingBalls  int             `json:"remainingBalls"`
	TotalBalls      int             `json:"totalBalls"`
	Players         []string        `json:"players"`
	TicketCount     int             `json:"ticketCount"`
	TotalStake      decimal.Decimal `json:"totalStake"`
	QueuedPlays     int             `json:"queuedPlays"`
	StartedAt       *time.Time      `json:"startedAt,omitempty"`
	DeadlineAt      *time.Time      `json:"deadlineAt,omitempty"`
	CountdownEndsAt *time.Time      `json:"countdownEndsAt,omitempty"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
