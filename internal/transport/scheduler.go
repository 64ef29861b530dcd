// Package transport implements the seek slider, relative jumps and the
// periodic position refresh that keeps the slider in step with playback.
package transport

import (
	"sync/atomic"
	"time"
)

// Timer is a pending callback that can be descheduled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks after a delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// TickMsg is delivered when an armed refresh timer fires. Gen identifies
// the arming it belongs to so ticks queued before a Disarm can be dropped.
// Gen values are unique across all schedulers of the process.
type TickMsg struct {
	Gen uint64
}

var lastGen atomic.Uint64

// Scheduler owns the single pending refresh tick. All methods must be called
// from the UI goroutine; only the sink runs on the timer goroutine.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	sink     func(TickMsg)
	timer    Timer
	gen      uint64
}

func NewScheduler(interval time.Duration) *Scheduler {
	return &Scheduler{clock: realClock{}, interval: interval}
}

// WithClock replaces the time source; used by tests.
func (s *Scheduler) WithClock(c Clock) *Scheduler {
	s.clock = c
	return s
}

// SetSink sets where fired ticks are delivered, usually tea.Program.Send.
func (s *Scheduler) SetSink(sink func(TickMsg)) {
	s.sink = sink
}

// SetInterval changes the delay used by the next Arm.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Arm schedules the next tick unless one is already pending.
func (s *Scheduler) Arm() {
	if s.timer != nil {
		return
	}
	gen := lastGen.Add(1)
	s.gen = gen
	sink := s.sink
	s.timer = s.clock.AfterFunc(s.interval, func() {
		if sink != nil {
			sink(TickMsg{Gen: gen})
		}
	})
}

// Disarm cancels the pending tick. A tick that already fired and is waiting
// in the event queue is invalidated too. Calling it while disarmed is a no-op.
func (s *Scheduler) Disarm() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen = 0
}

func (s *Scheduler) IsArmed() bool {
	return s.timer != nil
}

// Accept consumes a delivered tick. It reports false for ticks from an
// earlier arming, after which the tick must be ignored.
func (s *Scheduler) Accept(msg TickMsg) bool {
	if s.timer == nil || msg.Gen != s.gen {
		return false
	}
	s.timer = nil
	return true
}
