package game

import (
	"time"

	"github.com/bellapacxx/bingo-hall/utils/clock"
)

// SchedulerState is the state of the draw timer.
type SchedulerState string

const (
	SchedulerStopped   SchedulerState = "stopped"
	SchedulerScheduled SchedulerState = "scheduled"
	SchedulerActive    SchedulerState = "active"
)

// Scheduler owns the single timer handle of a hall: the countdown
// while Scheduled and the periodic draw while Active. Arming anything
// cancels the previous handle first. Each cancellation bumps the
// generation, and callbacks carry the generation they were armed
// with, so a callback that lost the race with Stop is ignored.
//
// Scheduler is not safe for concurrent use; the Manager calls it with
// its lock held and its callbacks take that same lock.
type Scheduler struct {
	clock    clock.Clock
	interval time.Duration
	window   time.Duration

	state      SchedulerState
	timer      *clock.Timer
	generation uint64

	onCountdown func(gen uint64)
	onTick      func(gen uint64)
}

func newScheduler(clk clock.Clock, interval, window time.Duration, onCountdown, onTick func(uint64)) *Scheduler {
	return &Scheduler{
		clock:       clk,
		interval:    interval,
		window:      window,
		state:       SchedulerStopped,
		onCountdown: onCountdown,
		onTick:      onTick,
	}
}

// Schedule arms the countdown and returns when it ends.
func (s *Scheduler) Schedule(delay time.Duration) time.Time {
	s.cancel()
	s.state = SchedulerScheduled
	gen := s.generation
	s.timer = s.clock.AfterFunc(delay, func() { s.onCountdown(gen) })
	return s.clock.Now().Add(delay)
}

// Start opens a draw window from now and arms the first tick.
func (s *Scheduler) Start() (startedAt, deadlineAt time.Time) {
	s.cancel()
	s.state = SchedulerActive
	startedAt = s.clock.Now()
	s.arm()
	return startedAt, startedAt.Add(s.window)
}

// Next arms the tick after the one that just ran.
func (s *Scheduler) Next() {
	if s.state == SchedulerActive {
		s.arm()
	}
}

// Stop cancels any pending countdown or tick. No callback armed
// before Stop will act after it returns.
func (s *Scheduler) Stop() {
	s.cancel()
	s.state = SchedulerStopped
}

func (s *Scheduler) State() SchedulerState {
	return s.state
}

// Current reports whether a callback armed at gen is still the live
// one for the given state.
func (s *Scheduler) Current(gen uint64, state SchedulerState) bool {
	return s.generation == gen && s.state == state
}

func (s *Scheduler) arm() {
	gen := s.generation
	s.timer = s.clock.AfterFunc(s.interval, func() { s.onTick(gen) })
}

func (s *Scheduler) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}
