package player

import (
	"sync"
	"time"
)

// Memory is an in-process bridge without video output. Its position
// advances with the clock while playing and stops at the duration.
type Memory struct {
	mu         sync.Mutex
	now        func() time.Time
	path       string
	durationMs int64
	positionMs int64
	playing    bool
	since      time.Time
	surface    uintptr
	released   bool
	calls      []string
}

// NewMemory returns a bridge reporting duration once something is loaded.
func NewMemory(duration time.Duration) *Memory {
	return &Memory{now: time.Now, durationMs: duration.Milliseconds()}
}

// WithClock replaces the time source; used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.record("load")
	m.path = path
	m.positionMs = 0
	m.playing = false
	return nil
}

func (m *Memory) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.record("play")
	if !m.playing {
		m.playing = true
		m.since = m.now()
	}
	return nil
}

func (m *Memory) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.record("pause")
	m.positionMs = m.current()
	m.playing = false
	return nil
}

func (m *Memory) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.record("stop")
	m.playing = false
	m.positionMs = 0
	return nil
}

func (m *Memory) IsPlaying() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return false, ErrReleased
	}
	if m.durationMs <= 0 {
		return m.playing, nil
	}
	return m.playing && m.current() < m.durationMs, nil
}

func (m *Memory) PositionMs() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return 0, ErrReleased
	}
	return m.current(), nil
}

func (m *Memory) DurationMs() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return 0, ErrReleased
	}
	if m.path == "" {
		return 0, nil
	}
	return m.durationMs, nil
}

// SetPositionMs seeks; targets past the end are clamped to the duration.
func (m *Memory) SetPositionMs(ms int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.record("seek")
	if ms < 0 {
		ms = 0
	}
	if m.durationMs > 0 && ms > m.durationMs {
		ms = m.durationMs
	}
	m.positionMs = ms
	if m.playing {
		m.since = m.now()
	}
	return nil
}

func (m *Memory) AttachToSurface(handle uintptr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.surface = handle
	return nil
}

func (m *Memory) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return ErrReleased
	}
	m.record("release")
	m.released = true
	m.playing = false
	return nil
}

// Calls returns the control calls received so far, in order.
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

func (m *Memory) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *Memory) current() int64 {
	pos := m.positionMs
	if m.playing {
		pos += m.now().Sub(m.since).Milliseconds()
	}
	if m.durationMs > 0 && pos > m.durationMs {
		pos = m.durationMs
	}
	return pos
}
