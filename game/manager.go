package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bellapacxx/bingo-hall/utils/clock"
	"github.com/bellapacxx/bingo-hall/utils/metrics"
)

const (
	defaultStoreTimeout = 5 * time.Second
	defaultHistoryLimit = 200
	maxIDAttempts       = 100
)

// Config wires a Manager to its collaborators.
type Config struct {
	Rules     Rules
	Clock     clock.Clock
	Store     Store
	Presence  Presence
	Publisher Publisher
	Logger    *zap.SugaredLogger

	// StoreTimeout bounds each store call. Store calls are detached
	// from the caller's cancellation.
	StoreTimeout time.Duration
	// HistoryLimit caps the archive kept in memory; the store keeps all.
	HistoryLimit int
}

// PlayOutcome describes what a play request did.
type PlayOutcome struct {
	RoundID         string     `json:"gameId"`
	Queued          bool       `json:"queued"`
	Position        int        `json:"position,omitempty"`
	CountdownEndsAt *time.Time `json:"countdownEndsAt,omitempty"`
}

// Manager owns the hall's current round, its ball pool, the draw
// scheduler and the archive. Every mutation happens under mu, from
// validation through persistence; events are published after mu is
// released.
type Manager struct {
	mu sync.Mutex

	rules        Rules
	clock        clock.Clock
	store        Store
	presence     Presence
	publisher    Publisher
	log          *zap.SugaredLogger
	storeTimeout time.Duration
	historyLimit int

	round   *Round
	history []HistoryEntry
	usedIDs map[string]bool
	sched   *Scheduler
	queue   []string
	closed  bool
}

type event struct {
	name    string
	payload any
}

type batch []event

func (b *batch) add(name string, payload any) {
	*b = append(*b, event{name: name, payload: payload})
}

// NewManager builds a Manager. Call Init before serving requests.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		rules:        cfg.Rules.withDefaults(),
		clock:        cfg.Clock,
		store:        cfg.Store,
		presence:     cfg.Presence,
		publisher:    cfg.Publisher,
		log:          cfg.Logger,
		storeTimeout: cfg.StoreTimeout,
		historyLimit: cfg.HistoryLimit,
		usedIDs:      make(map[string]bool),
	}
	if m.clock == nil {
		m.clock = clock.Real()
	}
	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.log == nil {
		m.log = zap.NewNop().Sugar()
	}
	if m.storeTimeout <= 0 {
		m.storeTimeout = defaultStoreTimeout
	}
	if m.historyLimit <= 0 {
		m.historyLimit = defaultHistoryLimit
	}
	m.sched = newScheduler(m.clock, m.rules.DrawInterval, m.rules.DrawWindow, m.onCountdown, m.onTick)
	return m
}

// Rules returns the rules the manager runs with.
func (m *Manager) Rules() Rules {
	return m.rules
}

// Init restores the archive and the last unfinished round from the
// store, or opens a fresh round.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	var out batch

	ctx, cancel := m.storeContext(ctx)
	defer cancel()

	history, err := m.store.LoadHistory(ctx, m.historyLimit)
	if err != nil {
		m.storeFailed("load history", err, &out)
	}
	m.history = history
	for _, h := range history {
		m.usedIDs[h.RoundID] = true
	}

	state, err := m.store.LoadLatestRound(ctx)
	if err != nil {
		m.storeFailed("load latest round", err, &out)
	}

	restored := false
	if state != nil && state.Phase != PhaseFinished && state.Winner == nil && !m.usedIDs[state.RoundID] {
		restored = m.restoreLocked(ctx, *state, &out)
	}
	if !restored {
		if err := m.newRoundLocked(&out); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	out.add(EventGameState, m.snapshotLocked())
	m.mu.Unlock()

	m.flush(out)
	return nil
}

// restoreLocked rebuilds a round from its persisted state. A round
// that was drawing comes back paused; one counting down comes back idle.
func (m *Manager) restoreLocked(ctx context.Context, state RoundState, out *batch) bool {
	r := newRound(state.RoundID, m.rules.TotalBalls, m.clock.Now())
	if err := r.pool.Restore(state.Available); err != nil {
		m.log.Warnw("discarding persisted round", "round", state.RoundID, "error", err)
		return false
	}
	r.drawn = append([]int(nil), state.DrawnBalls...)
	if state.BonusBall != nil {
		b := *state.BonusBall
		r.bonus = &b
	}
	r.StartedAt = state.StartedAt
	r.DeadlineAt = state.DeadlineAt
	if state.Phase == PhaseRunning {
		r.Phase = PhaseRunning
	}

	tickets, err := m.store.QueryTicketsForRound(ctx, state.RoundID)
	if err != nil {
		m.storeFailed("query tickets", err, out)
	}
	for i := range tickets {
		t := tickets[i]
		r.addTicket(&t)
	}

	m.round = r
	m.usedIDs[r.ID] = true
	m.log.Infow("restored round", "round", r.ID, "phase", r.Phase, "drawn", len(r.drawn), "tickets", len(r.tickets))
	return true
}

// SellTicket validates and records a sale for the current round.
func (m *Manager) SellTicket(ctx context.Context, req TicketRequest) (*Ticket, error) {
	m.mu.Lock()
	var out batch

	r := m.round
	if r == nil {
		m.mu.Unlock()
		return nil, ErrNoActiveRound
	}
	if r.Phase == PhaseRunning || r.Phase == PhaseFinished {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: round %s is already drawing", ErrRoundBusy, r.ID)
	}

	t, err := m.rules.buildTicket(req, r.ID, m.clock.Now())
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if r.hasTicket(t.ID) {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: slip %s already sold", ErrInvalidTicket, t.ID)
	}

	r.addTicket(t)
	metrics.RecordTicket(t.Stake.InexactFloat64())

	sctx, cancel := m.storeContext(ctx)
	if err := m.store.InsertTicket(sctx, *t); err != nil {
		m.storeFailed("insert ticket", err, &out)
	}
	cancel()

	m.log.Infow("ticket sold", "round", r.ID, "ticket", t.ID, "player", t.PlayerName, "lines", len(t.Lines), "stake", t.Stake.String())
	out.add(EventTicketSold, TicketSoldEvent{
		RoundID:    r.ID,
		TicketID:   t.ID,
		PlayerName: t.PlayerName,
		Lines:      len(t.Lines),
		Stake:      t.Stake,
	})
	out.add(EventGameState, m.snapshotLocked())
	sold := *t
	m.mu.Unlock()

	m.flush(out)
	return &sold, nil
}

// RequestPlay asks for the current round to start. A round that is
// already running is abandoned and a new one counts down. Without the
// required observers the request waits in a FIFO queue and is
// replayed by ObserversChanged.
func (m *Manager) RequestPlay(ctx context.Context, gameIDHint string) (PlayOutcome, error) {
	m.mu.Lock()
	var out batch

	outcome, err := m.playLocked(gameIDHint, &out)
	if len(out) > 0 {
		out.add(EventGameState, m.snapshotLocked())
	}
	m.mu.Unlock()

	m.flush(out)
	return outcome, err
}

func (m *Manager) playLocked(hint string, out *batch) (PlayOutcome, error) {
	r := m.round
	if r == nil {
		return PlayOutcome{}, ErrNoActiveRound
	}
	if hint != "" && hint != r.ID {
		return PlayOutcome{}, fmt.Errorf("%w: %s is not the current round (%s)", ErrNoActiveRound, hint, r.ID)
	}

	switch r.Phase {
	case PhaseCountingDown:
		return PlayOutcome{}, fmt.Errorf("%w: round %s is already counting down", ErrRoundBusy, r.ID)
	case PhaseRunning:
		// A round already under way, drawing or paused, is given up
		// in favour of a fresh one.
		if err := m.finishLocked(EndAbandoned, out); err != nil {
			return PlayOutcome{}, err
		}
		r = m.round
	}

	if !m.ready() {
		m.queue = append(m.queue, r.ID)
		pos := len(m.queue)
		m.log.Infow("play queued until cashier and display connect", "round", r.ID, "position", pos)
		out.add(EventPlayQueued, QueuedEvent{RoundID: r.ID, Position: pos})
		return PlayOutcome{RoundID: r.ID, Queued: true, Position: pos}, nil
	}

	endsAt := m.beginCountdownLocked(out)
	return PlayOutcome{RoundID: r.ID, CountdownEndsAt: &endsAt}, nil
}

func (m *Manager) beginCountdownLocked(out *batch) time.Time {
	r := m.round
	endsAt := m.sched.Schedule(m.rules.Countdown)
	r.Phase = PhaseCountingDown
	r.CountdownEndsAt = endsAt
	m.persistLocked(out)

	m.log.Infow("countdown started", "round", r.ID, "ends_at", endsAt)
	out.add(EventCountdown, CountdownEvent{
		RoundID: r.ID,
		EndsAt:  endsAt,
		Seconds: int(m.rules.Countdown / time.Second),
	})
	return endsAt
}

// StartNow skips the countdown and starts drawing an idle or
// counting-down round.
func (m *Manager) StartNow(ctx context.Context) error {
	m.mu.Lock()
	var out batch

	r := m.round
	var err error
	switch {
	case r == nil:
		err = ErrNoActiveRound
	case r.Phase != PhaseIdle && r.Phase != PhaseCountingDown:
		err = fmt.Errorf("%w: round %s is %s", ErrRoundBusy, r.ID, r.Phase)
	case !m.ready():
		err = ErrNotReady
	default:
		m.startDrawingLocked(EventGameStarted, &out)
		out.add(EventGameState, m.snapshotLocked())
	}
	m.mu.Unlock()

	m.flush(out)
	return err
}

func (m *Manager) startDrawingLocked(name string, out *batch) {
	r := m.round
	startedAt, deadlineAt := m.sched.Start()
	r.Phase = PhaseRunning
	r.StartedAt = startedAt
	r.DeadlineAt = deadlineAt
	r.CountdownEndsAt = time.Time{}
	m.persistLocked(out)

	m.log.Infow("drawing started", "round", r.ID, "deadline", deadlineAt)
	out.add(name, RoundEvent{
		RoundID:    r.ID,
		StartedAt:  timePtr(startedAt),
		DeadlineAt: timePtr(deadlineAt),
	})
}

// DrawOne draws a single ball on demand.
func (m *Manager) DrawOne(ctx context.Context) (int, error) {
	m.mu.Lock()
	var out batch

	ball, err := m.drawLocked("manual", &out)
	if len(out) > 0 {
		out.add(EventGameState, m.snapshotLocked())
	}
	m.mu.Unlock()

	m.flush(out)
	return ball, err
}

func (m *Manager) drawLocked(trigger string, out *batch) (int, error) {
	if !m.ready() {
		return 0, ErrNotReady
	}
	r := m.round
	if r == nil || r.Phase == PhaseIdle || r.Phase == PhaseFinished {
		return 0, ErrNoActiveRound
	}
	if r.Phase == PhaseCountingDown {
		return 0, fmt.Errorf("%w: round %s is counting down", ErrRoundBusy, r.ID)
	}

	if reason := m.endConditionLocked(); reason != "" {
		if err := m.finishLocked(reason, out); err != nil {
			return 0, err
		}
		return 0, endError(reason)
	}

	ball, err := r.pool.Draw()
	if err != nil {
		return 0, err
	}
	r.drawn = append(r.drawn, ball)
	metrics.RecordBall(trigger, false)
	m.log.Debugw("ball drawn", "round", r.ID, "ball", ball, "draw", len(r.drawn), "trigger", trigger)
	out.add(EventBallDrawn, BallEvent{RoundID: r.ID, Number: ball, Draw: len(r.drawn)})

	if len(r.drawn) == m.rules.BonusThreshold && r.bonus == nil && r.pool.Remaining() > 0 {
		bonus, err := r.pool.Draw()
		if err == nil {
			r.bonus = &bonus
			metrics.RecordBall(trigger, true)
			m.log.Infow("bonus ball drawn", "round", r.ID, "ball", bonus)
			out.add(EventBonusBall, BallEvent{RoundID: r.ID, Number: bonus, Draw: len(r.drawn)})
		}
	}

	if w := FindWinner(r.tickets, r.drawn, m.rules.WinThreshold, m.rules.Prizes); w != nil {
		r.winner = w
		metrics.RecordPrize(w.Prize.InexactFloat64())
		m.log.Infow("winner found", "round", r.ID, "ticket", w.TicketID, "player", w.PlayerName, "matches", w.Matches, "prize", w.Prize.String())
		out.add(EventWinner, WinnerEvent{RoundID: r.ID, Winner: *w})
		if err := m.finishLocked(EndWinner, out); err != nil {
			return ball, err
		}
		return ball, nil
	}

	m.persistLocked(out)
	return ball, nil
}

// endConditionLocked reports a natural end of the current round, if any.
func (m *Manager) endConditionLocked() EndReason {
	r := m.round
	switch {
	case r.winner != nil:
		return EndWinner
	case r.pool.Remaining() == 0:
		return EndPoolExhausted
	case len(r.drawn) >= m.rules.MaxDraws:
		return EndMaxDraws
	case !r.DeadlineAt.IsZero() && !m.clock.Now().Before(r.DeadlineAt):
		return EndDeadline
	}
	return ""
}

func endError(reason EndReason) error {
	switch reason {
	case EndPoolExhausted:
		return ErrPoolExhausted
	case EndMaxDraws:
		return ErrRoundCapReached
	case EndDeadline:
		return ErrDeadlineExceeded
	}
	return fmt.Errorf("%w: round ended (%s)", ErrNoActiveRound, reason)
}

// onCountdown runs when a countdown elapses.
func (m *Manager) onCountdown(gen uint64) {
	m.mu.Lock()
	if m.closed || !m.sched.Current(gen, SchedulerScheduled) {
		m.mu.Unlock()
		return
	}
	var out batch

	r := m.round
	if m.ready() {
		m.startDrawingLocked(EventGameStarted, &out)
	} else {
		m.sched.Stop()
		m.requeueLocked(&out)
	}
	out.add(EventGameState, m.snapshotLocked())
	m.log.Debugw("countdown elapsed", "round", r.ID, "phase", r.Phase)
	m.mu.Unlock()

	m.flush(out)
}

// onTick runs on every scheduler tick: stop when the round is over,
// otherwise draw one ball.
func (m *Manager) onTick(gen uint64) {
	m.mu.Lock()
	if m.closed || !m.sched.Current(gen, SchedulerActive) {
		m.mu.Unlock()
		return
	}
	var out batch

	reason := m.endConditionLocked()
	if reason == "" && !m.ready() {
		reason = EndObserversLost
	}
	if reason != "" {
		if err := m.finishLocked(reason, &out); err != nil {
			m.log.Errorw("finish round", "error", err)
		}
	} else {
		if _, err := m.drawLocked("auto", &out); err != nil && !IsRoundEnd(err) {
			m.log.Errorw("automatic draw failed", "round", m.round.ID, "error", err)
			out.add(EventError, ErrorEvent{Message: err.Error()})
		}
		m.sched.Next()
	}
	out.add(EventGameState, m.snapshotLocked())
	m.mu.Unlock()

	m.flush(out)
}

// finishLocked stops drawing, archives the round and opens a new one.
func (m *Manager) finishLocked(reason EndReason, out *batch) error {
	r := m.round
	m.sched.Stop()
	r.Phase = PhaseFinished
	r.CountdownEndsAt = time.Time{}
	m.persistLocked(out)

	if reason == EndReset {
		m.log.Infow("round reset", "round", r.ID, "drawn", len(r.drawn))
	} else {
		m.log.Infow("round finished", "round", r.ID, "reason", reason, "drawn", len(r.drawn))
		out.add(EventGamePaused, PausedEvent{RoundID: r.ID, Reason: string(reason)})
	}

	m.archiveLocked(r.archive(reason, m.clock.Now()), out)
	return m.newRoundLocked(out)
}

func (m *Manager) archiveLocked(entry HistoryEntry, out *batch) {
	m.history = append(m.history, entry)
	if len(m.history) > m.historyLimit {
		m.history = append([]HistoryEntry(nil), m.history[len(m.history)-m.historyLimit:]...)
	}
	metrics.RecordRoundFinished(string(entry.Reason), len(entry.DrawnBalls))

	ctx, cancel := m.storeContext(context.Background())
	defer cancel()
	if err := m.store.AppendHistory(ctx, entry); err != nil {
		m.storeFailed("append history", err, out)
	}
}

func (m *Manager) newRoundLocked(out *batch) error {
	var id string
	for i := 0; ; i++ {
		if i == maxIDAttempts {
			return fmt.Errorf("allocate round id: %d attempts collided", maxIDAttempts)
		}
		candidate, err := newRoundID()
		if err != nil {
			return err
		}
		if m.usedIDs[candidate] {
			continue
		}
		// history in memory is capped, the store knows every id
		if m.storedRoundLocked(candidate, out) {
			m.usedIDs[candidate] = true
			continue
		}
		id = candidate
		break
	}
	m.usedIDs[id] = true
	m.round = newRound(id, m.rules.TotalBalls, m.clock.Now())
	m.persistLocked(out)
	m.log.Infow("new round ready", "round", id)
	return nil
}

func (m *Manager) storedRoundLocked(id string, out *batch) bool {
	ctx, cancel := m.storeContext(context.Background())
	defer cancel()
	exists, err := m.store.RoundExists(ctx, id)
	if err != nil {
		m.storeFailed("check round id", err, out)
		return false
	}
	return exists
}

// requeueLocked returns a counting-down round to idle and queues its
// play request again.
func (m *Manager) requeueLocked(out *batch) {
	r := m.round
	r.Phase = PhaseIdle
	r.CountdownEndsAt = time.Time{}
	m.queue = append(m.queue, r.ID)
	m.persistLocked(out)
	m.log.Warnw("observers missing, play re-queued", "round", r.ID)
	out.add(EventPlayQueued, QueuedEvent{RoundID: r.ID, Position: len(m.queue)})
}

// Pause stops automatic drawing without ending the round.
func (m *Manager) Pause(ctx context.Context) error {
	m.mu.Lock()
	var out batch

	r := m.round
	var err error
	switch {
	case r == nil || r.Phase != PhaseRunning:
		err = fmt.Errorf("%w: nothing is drawing", ErrNoActiveRound)
	case m.sched.State() != SchedulerActive:
		err = fmt.Errorf("%w: round %s is already paused", ErrRoundBusy, r.ID)
	default:
		m.sched.Stop()
		m.persistLocked(&out)
		m.log.Infow("round paused", "round", r.ID, "drawn", len(r.drawn))
		out.add(EventGamePaused, PausedEvent{RoundID: r.ID, Reason: "manual"})
		out.add(EventGameState, m.snapshotLocked())
	}
	m.mu.Unlock()

	m.flush(out)
	return err
}

// Resume restarts automatic drawing of a paused round with a fresh
// draw window.
func (m *Manager) Resume(ctx context.Context) error {
	m.mu.Lock()
	var out batch

	r := m.round
	var err error
	switch {
	case r == nil || r.Phase != PhaseRunning:
		err = fmt.Errorf("%w: nothing to resume", ErrNoActiveRound)
	case m.sched.State() == SchedulerActive:
		err = fmt.Errorf("%w: round %s is already drawing", ErrRoundBusy, r.ID)
	case !m.ready():
		err = ErrNotReady
	default:
		r.DeadlineAt = time.Time{}
		if reason := m.endConditionLocked(); reason != "" {
			err = m.finishLocked(reason, &out)
			if err == nil {
				err = endError(reason)
			}
		} else {
			m.startDrawingLocked(EventGameResumed, &out)
		}
		out.add(EventGameState, m.snapshotLocked())
	}
	m.mu.Unlock()

	m.flush(out)
	return err
}

// ResetRound archives the current round whatever its state and opens
// a fresh idle one. Pending play requests are dropped.
func (m *Manager) ResetRound(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	var out batch

	m.queue = nil
	previous := ""
	var err error
	if m.round == nil {
		m.sched.Stop()
		err = m.newRoundLocked(&out)
	} else {
		previous = m.round.ID
		err = m.finishLocked(EndReset, &out)
	}
	if err == nil {
		out.add(EventGameReset, ResetEvent{PreviousRoundID: previous, RoundID: m.round.ID})
	}
	snap := m.snapshotLocked()
	out.add(EventGameState, snap)
	m.mu.Unlock()

	m.flush(out)
	return snap, err
}

// ObserversChanged must be called whenever a cashier or display
// connects or disconnects.
func (m *Manager) ObserversChanged() {
	m.mu.Lock()
	if m.closed || m.round == nil {
		m.mu.Unlock()
		return
	}
	var out batch

	r := m.round
	ready := m.ready()
	switch {
	case r.Phase == PhaseRunning && m.sched.State() == SchedulerActive && !ready:
		if err := m.finishLocked(EndObserversLost, &out); err != nil {
			m.log.Errorw("finish round", "error", err)
		}
	case r.Phase == PhaseCountingDown && !ready:
		m.sched.Stop()
		m.requeueLocked(&out)
	case r.Phase == PhaseIdle && ready && len(m.queue) > 0:
		m.replayLocked(&out)
	}
	if len(out) > 0 {
		out.add(EventGameState, m.snapshotLocked())
	}
	m.mu.Unlock()

	m.flush(out)
}

// replayLocked drains the play queue in arrival order. The first
// request for the current round starts the countdown; the rest are
// dropped.
func (m *Manager) replayLocked(out *batch) {
	queued := m.queue
	m.queue = nil
	for _, hint := range queued {
		if _, err := m.playLocked(hint, out); err != nil {
			m.log.Infow("dropping queued play", "hint", hint, "error", err)
		}
	}
}

// Snapshot returns the sanitized current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// CurrentRound returns the id of the round accepting tickets or drawing.
func (m *Manager) CurrentRound() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.round == nil {
		return ""
	}
	return m.round.ID
}

// History returns up to limit archived rounds, newest first.
func (m *Manager) History(limit int) []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]HistoryEntry, 0, limit)
	for i := len(m.history) - 1; i >= len(m.history)-limit; i-- {
		out = append(out, m.history[i])
	}
	return out
}

// Tickets returns the tickets sold for the current round.
func (m *Manager) Tickets() []Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.round == nil {
		return nil
	}
	out := make([]Ticket, 0, len(m.round.tickets))
	for _, t := range m.round.tickets {
		out = append(out, *t)
	}
	return out
}

// Close cancels pending timers. The manager ignores timer callbacks
// afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.sched.Stop()
}

func (m *Manager) snapshotLocked() Snapshot {
	r := m.round
	if r == nil {
		return Snapshot{MaxDraws: m.rules.MaxDraws, TotalBalls: m.rules.TotalBalls}
	}
	active := m.sched.State() == SchedulerActive
	return Snapshot{
		RoundID:         r.ID,
		Phase:           r.Phase,
		IsRunning:       active,
		Paused:          r.Phase == PhaseRunning && !active,
		Ready:           m.ready(),
		DrawnBalls:      r.DrawnBalls(),
		RecentBalls:     r.RecentBalls(m.rules.RecentBalls),
		BonusBall:       r.BonusBall(),
		Winner:          r.Winner(),
		DrawCount:       len(r.drawn),
		MaxDraws:        m.rules.MaxDraws,
		RemainingBalls:  r.pool.Remaining(),
		TotalBalls:      r.pool.Total(),
		Players:         r.Players(),
		TicketCount:     len(r.tickets),
		TotalStake:      r.TotalStake(),
		QueuedPlays:     len(m.queue),
		StartedAt:       timePtr(r.StartedAt),
		DeadlineAt:      timePtr(r.DeadlineAt),
		CountdownEndsAt: timePtr(r.CountdownEndsAt),
	}
}

func (m *Manager) ready() bool {
	if m.presence == nil {
		return true
	}
	return m.presence.CashierCount() > 0 && m.presence.DisplayCount() > 0
}

func (m *Manager) persistLocked(out *batch) {
	r := m.round
	state := RoundState{
		RoundID:    r.ID,
		Phase:      r.Phase,
		Running:    m.sched.State() == SchedulerActive,
		Available:  r.pool.Available(),
		DrawnBalls: r.DrawnBalls(),
		BonusBall:  r.BonusBall(),
		Winner:     r.Winner(),
		StartedAt:  r.StartedAt,
		DeadlineAt: r.DeadlineAt,
		UpdatedAt:  m.clock.Now(),
	}

	ctx, cancel := m.storeContext(context.Background())
	defer cancel()
	if err := m.store.SaveRoundState(ctx, state); err != nil {
		m.storeFailed("save round state", err, out)
	}
}

func (m *Manager) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), m.storeTimeout)
}

func (m *Manager) storeFailed(op string, err error, out *batch) {
	metrics.RecordFailure("persistence")
	m.log.Errorw("store call failed", "op", op, "error", err)
	out.add(EventError, ErrorEvent{Message: fmt.Sprintf("%v: %s", ErrPersistence, op)})
}

// flush publishes events in order. Failures are logged and dropped.
func (m *Manager) flush(out batch) {
	if m.publisher == nil {
		return
	}
	for _, e := range out {
		if err := m.publisher.Publish(e.name, e.payload); err != nil {
			metrics.RecordFailure("publish")
			m.log.Warnw("publish failed", "event", e.name, "error", err)
		}
	}
}
