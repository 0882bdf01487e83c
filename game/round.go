package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Phase is the life-cycle stage of a round.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseCountingDown Phase = "counting_down"
	PhaseRunning      Phase = "running"
	PhaseFinished     Phase = "finished"
)

// EndReason records why a round was archived.
type EndReason string

const (
	EndWinner        EndReason = "winner"
	EndPoolExhausted EndReason = "pool_exhausted"
	EndMaxDraws      EndReason = "max_draws"
	EndDeadline      EndReason = "deadline"
	EndObserversLost EndReason = "observers_lost"
	EndReset         EndReason = "reset"
	EndAbandoned     EndReason = "abandoned"
)

// Line is one set of chosen numbers on a ticket and the stake paid for it.
type Line struct {
	Numbers []int           `json:"numbers"`
	Stake   decimal.Decimal `json:"stake"`
}

// Ticket is a sold slip. Its ID is the slip number.
type Ticket struct {
	ID         string          `json:"id"`
	RoundID    string          `json:"roundId"`
	PlayerName string          `json:"playerName"`
	Lines      []Line          `json:"lines"`
	Stake      decimal.Decimal `json:"stake"`
	SoldAt     time.Time       `json:"soldAt"`
}

// Winner is the ticket that closed a round.
type Winner struct {
	TicketID   string          `json:"ticketId"`
	PlayerName string          `json:"playerName"`
	Matches    int             `json:"matches"`
	Prize      decimal.Decimal `json:"prize"`
}

// HistoryEntry is the write-once archive of a completed round.
type HistoryEntry struct {
	RoundID     string          `json:"roundId"`
	DrawnBalls  []int           `json:"drawnBalls"`
	BonusBall   *int            `json:"bonusBall"`
	Winner      *Winner         `json:"winner"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	EndedAt     time.Time       `json:"endedAt"`
	Reason      EndReason       `json:"reason"`
	TicketCount int             `json:"ticketCount"`
	TotalStake  decimal.Decimal `json:"totalStake"`
}

// Round is one game. It is only touched by the Manager that owns it.
type Round struct {
	ID              string
	Phase           Phase
	CreatedAt       time.Time
	StartedAt       time.Time
	DeadlineAt      time.Time
	CountdownEndsAt time.Time

	pool    *BallPool
	drawn   []int
	bonus   *int
	winner  *Winner
	tickets []*Ticket
	byID    map[string]*Ticket
	players []string
}

func newRound(id string, totalBalls int, now time.Time) *Round {
	return &Round{
		ID:        id,
		Phase:     PhaseIdle,
		CreatedAt: now,
		pool:      NewBallPool(totalBalls),
		byID:      make(map[string]*Ticket),
	}
}

// DrawnBalls returns the drawn balls in draw order.
func (r *Round) DrawnBalls() []int {
	return append([]int(nil), r.drawn...)
}

// RecentBalls returns up to n of the latest balls, newest first.
func (r *Round) RecentBalls(n int) []int {
	if n > len(r.drawn) {
		n = len(r.drawn)
	}
	out := make([]int, 0, n)
	for i := len(r.drawn) - 1; i >= len(r.drawn)-n; i-- {
		out = append(out, r.drawn[i])
	}
	return out
}

func (r *Round) BonusBall() *int {
	if r.bonus == nil {
		return nil
	}
	b := *r.bonus
	return &b
}

func (r *Round) Winner() *Winner {
	if r.winner == nil {
		return nil
	}
	w := *r.winner
	return &w
}

// Tickets returns the sold tickets in sale order.
func (r *Round) Tickets() []*Ticket {
	return append([]*Ticket(nil), r.tickets...)
}

// Players returns the roster in order of first purchase.
func (r *Round) Players() []string {
	return append([]string(nil), r.players...)
}

func (r *Round) Pool() *BallPool {
	return r.pool
}

func (r *Round) TotalStake() decimal.Decimal {
	total := decimal.Zero
	for _, t := range r.tickets {
		total = total.Add(t.Stake)
	}
	return total
}

func (r *Round) hasTicket(id string) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *Round) addTicket(t *Ticket) {
	r.tickets = append(r.tickets, t)
	r.byID[t.ID] = t
	for _, p := range r.players {
		if p == t.PlayerName {
			return
		}
	}
	r.players = append(r.players, t.PlayerName)
}

func (r *Round) archive(reason EndReason, now time.Time) HistoryEntry {
	entry := HistoryEntry{
		RoundID:     r.ID,
		DrawnBalls:  r.DrawnBalls(),
		BonusBall:   r.BonusBall(),
		Winner:      r.Winner(),
		EndedAt:     now,
		Reason:      reason,
		TicketCount: len(r.tickets),
		TotalStake:  r.TotalStake(),
	}
	if !r.StartedAt.IsZero() {
		started := r.StartedAt
		entry.StartedAt = &started
	}
	return entry
}

// newRoundID returns a short token such as "BG-48213".
func newRoundID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", fmt.Errorf("round id: %w", err)
	}
	return fmt.Sprintf("BG-%d", 10000+n.Int64()), nil
}
