package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/config"
	"codeberg.org/snonux/chapmark/internal/library"
	"codeberg.org/snonux/chapmark/internal/player"
	"codeberg.org/snonux/chapmark/internal/transport"
)

// Options configure a program run.
type Options struct {
	// Root is a video file or a directory to browse.
	Root       string
	SingleFile bool
	Config     config.Config
	ConfigPath string
	// NoPlayer replaces mpv with the in-memory bridge.
	NoPlayer bool
}

type teaProgram interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

var programFactory = func(m tea.Model) teaProgram {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
}

var newBridge = func(opts Options, path string) player.Bridge {
	if !opts.NoPlayer {
		return player.NewMPV(player.MPVOptions{})
	}
	dur, err := library.ProbeDuration(context.Background(), path)
	if err != nil {
		log.Printf("probe %s: %v", path, err)
	}
	return player.NewMemory(dur)
}

var newScheduler = transport.NewScheduler

// msgSink forwards messages from timer goroutines into the running program.
type msgSink struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *msgSink) bind(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *msgSink) Send(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Run bootstraps the Bubble Tea program with the provided options. Open
// editors are torn down and the config is saved when the program ends.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	program := programFactory(m)
	m.sink.bind(program.Send)
	final, runErr := program.Run()
	if fm, ok := final.(model); ok {
		m = fm
	}
	m.closeEditor()
	if err := m.saveConfig(); err != nil {
		log.Printf("save config: %v", err)
	}
	if runErr != nil {
		return fmt.Errorf("run program: %w", runErr)
	}
	return nil
}
