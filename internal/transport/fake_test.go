package transport

import (
	"time"

	"codeberg.org/snonux/chapmark/internal/player"
)

type fakeTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{fn: f}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

// fire runs the most recent timer unless it was stopped.
func (c *fakeClock) fire() bool {
	if len(c.timers) == 0 {
		return false
	}
	t := c.timers[len(c.timers)-1]
	if t.stopped || t.fired {
		return false
	}
	t.fired = true
	t.fn()
	return true
}

func (c *fakeClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// seekRecorder records seek targets on top of the in-memory bridge.
type seekRecorder struct {
	*player.Memory
	seeks []int64
}

func (r *seekRecorder) SetPositionMs(ms int64) error {
	r.seeks = append(r.seeks, ms)
	return r.Memory.SetPositionMs(ms)
}

func newRecorder(duration time.Duration) *seekRecorder {
	m := player.NewMemory(duration)
	_ = m.Load("clip.mp4")
	return &seekRecorder{Memory: m}
}
