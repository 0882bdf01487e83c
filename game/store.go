package game

import (
	"context"
	"time"
)

// RoundState is the persisted form of the active round.
type RoundState struct {
	RoundID    string
	Phase      Phase
	Running    bool
	Available  []int
	DrawnBalls []int
	BonusBall  *int
	Winner     *Winner
	StartedAt  time.Time
	DeadlineAt time.Time
	UpdatedAt  time.Time
}

// Store is the durable record of rounds, tickets and history. Writes
// for one round id must be applied in call order. Retries are the
// store's concern.
type Store interface {
	// LoadLatestRound returns nil, nil when nothing was saved yet.
	LoadLatestRound(ctx context.Context) (*RoundState, error)
	SaveRoundState(ctx context.Context, state RoundState) error
	AppendHistory(ctx context.Context, entry HistoryEntry) error
	InsertTicket(ctx context.Context, ticket Ticket) error
	QueryTicketsForRound(ctx context.Context, roundID string) ([]Ticket, error)
	// LoadHistory returns up to limit of the latest entries, oldest first.
	LoadHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
	// RoundExists reports whether id was ever saved or archived.
	RoundExists(ctx context.Context, roundID string) (bool, error)
}

// Presence reports connected observers. It is read at every gating
// decision, never cached.
type Presence interface {
	CashierCount() int
	DisplayCount() int
}

// Publisher delivers events to observers. Delivery is best effort.
type Publisher interface {
	Publish(event string, payload any) error
}
