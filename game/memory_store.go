package game

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. The server uses it when no
// database is configured; tests use it to inspect what was written.
type MemoryStore struct {
	mu      sync.RWMutex
	latest  *RoundState
	history []HistoryEntry
	tickets map[string][]Ticket
	known   map[string]bool
	saves   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets: make(map[string][]Ticket),
		known:   make(map[string]bool),
	}
}

func (s *MemoryStore) LoadLatestRound(ctx context.Context) (*RoundState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, nil
	}
	state := cloneState(*s.latest)
	return &state, nil
}

func (s *MemoryStore) SaveRoundState(ctx context.Context, state RoundState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := cloneState(state)
	s.latest = &cloned
	s.known[state.RoundID] = true
	s.saves++
	return nil
}

func (s *MemoryStore) AppendHistory(ctx context.Context, entry HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.DrawnBalls = append([]int(nil), entry.DrawnBalls...)
	s.history = append(s.history, entry)
	s.known[entry.RoundID] = true
	return nil
}

func (s *MemoryStore) InsertTicket(ctx context.Context, ticket Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[ticket.RoundID] = append(s.tickets[ticket.RoundID], ticket)
	return nil
}

func (s *MemoryStore) QueryTicketsForRound(ctx context.Context, roundID string) ([]Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Ticket(nil), s.tickets[roundID]...), nil
}

func (s *MemoryStore) LoadHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && len(s.history) > limit {
		start = len(s.history) - limit
	}
	return append([]HistoryEntry(nil), s.history[start:]...), nil
}

func (s *MemoryStore) RoundExists(ctx context.Context, roundID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known[roundID], nil
}

// Saves returns how many round states were written.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneState(state RoundState) RoundState {
	state.Available = append([]int(nil), state.Available...)
	state.DrawnBalls = append([]int(nil), state.DrawnBalls...)
	if state.BonusBall != nil {
		b := *state.BonusBall
		state.BonusBall = &b
	}
	if state.Winner != nil {
		w := *state.Winner
		state.Winner = &w
	}
	return state
}
