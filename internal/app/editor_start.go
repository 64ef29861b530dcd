package app

import (
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/player"
	"codeberg.org/snonux/chapmark/internal/transport"
)

// playerStart hands a bridge prepared off the UI goroutine to the editor
// that asked for it. Whichever happens second, the editor closing or the
// bridge arriving, tears the bridge down.
type playerStart struct {
	mu     sync.Mutex
	bridge player.Bridge
	closed bool
}

func (s *playerStart) deliver(b player.Bridge) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.bridge = b
	return true
}

func (s *playerStart) take() player.Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bridge
	s.bridge = nil
	return b
}

// cancel abandons the start and returns a delivered bridge nobody took.
func (s *playerStart) cancel() player.Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	b := s.bridge
	s.bridge = nil
	return b
}

type playerReadyMsg struct {
	start *playerStart
	err   error
}

// startPlayerCmd creates and loads the bridge. Running ffprobe or
// connecting to mpv can take seconds, so it never runs in Update.
func startPlayerCmd(opts Options, path string, start *playerStart) tea.Cmd {
	return func() tea.Msg {
		bridge := newBridge(opts, path)
		err := bridge.Load(path)
		if !start.deliver(bridge) {
			teardownBridge(path, bridge)
			return nil
		}
		return playerReadyMsg{start: start, err: err}
	}
}

func teardownBridge(name string, b player.Bridge) {
	if b == nil {
		return
	}
	if err := player.Teardown(b); err != nil {
		log.Printf("teardown %s: %v", name, err)
	}
}

func (m model) handlePlayerReady(msg playerReadyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if e == nil || e.start != msg.start {
		teardownBridge("abandoned player", msg.start.cancel())
		return m, nil
	}
	bridge := msg.start.take()
	if bridge == nil {
		return m, nil
	}
	e.ctrl = transport.NewController(bridge, e.sched)
	e.sched.Arm()
	if msg.err != nil {
		log.Printf("load %s: %v", e.store.VideoPath(), msg.err)
		e.status = errorStyle.Render("Player error: " + msg.err.Error())
		return m, nil
	}
	if e.status == statusStarting {
		e.status = "Editing " + e.name
	}
	return m, nil
}

func (e *editor) ready() bool {
	return e.ctrl != nil
}
