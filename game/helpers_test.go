package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-hall/utils/clock"
)

var epoch = time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

type fakePresence struct {
	mu       sync.Mutex
	cashiers int
	displays int
}

func (p *fakePresence) CashierCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cashiers
}

func (p *fakePresence) DisplayCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displays
}

func (p *fakePresence) set(cashiers, displays int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cashiers, p.displays = cashiers, displays
}

type published struct {
	name    string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []published
	fail   bool
}

func (r *recorder) Publish(name string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{name: name, payload: payload})
	if r.fail {
		return errors.New("sink unavailable")
	}
	return nil
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.name == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].name == name {
			return r.events[i].payload
		}
	}
	return nil
}

type harness struct {
	m        *Manager
	clock    *clock.FakeClock
	store    *MemoryStore
	presence *fakePresence
	events   *recorder
}

func newHarness(t *testing.T, rules Rules) *harness {
	t.Helper()
	h := &harness{
		clock:    clock.Fake(epoch),
		store:    NewMemoryStore(),
		presence: &fakePresence{cashiers: 1, displays: 1},
		events:   &recorder{},
	}
	h.m = NewManager(Config{
		Rules:     rules,
		Clock:     h.clock,
		Store:     h.store,
		Presence:  h.presence,
		Publisher: h.events,
	})
	require.NoError(t, h.m.Init(context.Background()))
	t.Cleanup(h.m.Close)
	return h
}

// tick advances the clock by one draw interval.
func (h *harness) tick() {
	h.clock.Advance(h.m.rules.DrawInterval)
}

// coverAllBalls sells lines that together hold every ball, so some
// line reaches five matches within 21 draws.
func (h *harness) coverAllBalls(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for start := 1; start <= 48; start += 10 {
		var set []int
		for n := start; n < start+10 && n <= 48; n++ {
			set = append(set, n)
		}
		_, err := h.m.SellTicket(ctx, TicketRequest{PlayerName: "player", Sets: [][]int{set}})
		require.NoError(t, err)
	}
}

// assertPartition checks that available, drawn and bonus split 1..total.
func assertPartition(t *testing.T, r *Round) {
	t.Helper()
	seen := make(map[int]int)
	for _, n := range r.pool.Available() {
		seen[n]++
	}
	for _, n := range r.drawn {
		seen[n]++
	}
	if r.bonus != nil {
		seen[*r.bonus]++
	}
	require.Len(t, seen, r.pool.Total())
	for n := 1; n <= r.pool.Total(); n++ {
		require.Equal(t, 1, seen[n], "ball %d", n)
	}
}
