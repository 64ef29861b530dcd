package app

import (
	"fmt"
	"path/filepath"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
)

const maxProbeWorkers = 6

// probeQueue tracks the background ffprobe runs started after a scan. At
// most maxProbeWorkers probes are in flight; each result releases a slot.
type probeQueue struct {
	pending  []string
	total    int
	done     int
	inFlight int
}

func newProbeQueue(paths []string) probeQueue {
	return probeQueue{pending: paths, total: len(paths)}
}

func (q *probeQueue) pop() (string, bool) {
	if len(q.pending) == 0 {
		return "", false
	}
	path := q.pending[0]
	q.pending = q.pending[1:]
	q.inFlight++
	return path, true
}

func (q *probeQueue) finish(counted bool) {
	if counted {
		q.done++
	}
	if q.inFlight > 0 {
		q.inFlight--
	}
}

func (q probeQueue) drained() bool {
	return q.done >= q.total && q.inFlight == 0
}

func (q probeQueue) active() bool {
	return q.total > 0
}

func (q probeQueue) workers() int {
	return min(runtime.NumCPU(), maxProbeWorkers, len(q.pending))
}

func (m model) handleDurationUpdate(msg durationUpdateMsg) (tea.Model, tea.Cmd) {
	selected := m.currentSelectionPath()
	counted := msg.path != ""
	if counted {
		m.applyProbeResult(msg)
	}
	m.probes.finish(counted)
	m.applyFiltersAndSort()
	m.restoreSelection(selected)
	if m.probes.drained() {
		m.finishProbes()
		return m, nil
	}
	cmd := m.nextProbeCmd()
	return m, cmd
}

// applyProbeResult leaves Video.Err alone on failure so the video can
// still be opened.
func (m *model) applyProbeResult(msg durationUpdateMsg) {
	if msg.err != nil {
		m.statusMessage = fmt.Sprintf("Duration error for %s: %v", filepath.Base(msg.path), msg.err)
		return
	}
	for i := range m.videos {
		if m.videos[i].Path == msg.path {
			m.videos[i].Duration = msg.duration
			break
		}
	}
	m.statusMessage = fmt.Sprintf("Probing durations %d/%d...", m.probes.done+1, m.probes.total)
}

func (m *model) finishProbes() {
	m.statusMessage = fmt.Sprintf("Durations ready (%d videos)", len(m.filtered))
	if err := m.cache.Flush(); err != nil {
		m.statusMessage = fmt.Sprintf("Duration cache flush error: %v", err)
	}
	m.probes = probeQueue{}
}

func (m *model) nextProbeCmd() tea.Cmd {
	path, ok := m.probes.pop()
	if !ok {
		return nil
	}
	return probeDurationCmd(path, m.cache)
}

func (m *model) startDurationWorkers() tea.Cmd {
	n := m.probes.workers()
	if n == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, n)
	for i := 0; i < n; i++ {
		cmds = append(cmds, m.nextProbeCmd())
	}
	return tea.Batch(cmds...)
}

func (m model) currentSelectionPath() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.filtered) {
		return ""
	}
	return m.filtered[idx].Path
}

func (m *model) restoreSelection(path string) {
	if path == "" {
		return
	}
	for i, v := range m.filtered {
		if v.Path == path {
			m.table.SetCursor(i)
			return
		}
	}
}
