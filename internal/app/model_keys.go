package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenEditor:
		return m.handleEditorKey(msg)
	case screenSettings:
		return m.handleSettingsKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case m.showFilters:
		return m.handleFilterKey(msg)
	case key.Matches(msg, m.picker.Quit):
		return m, tea.Quit
	case m.loading:
		return m, nil
	}
	return m.handleTableKey(msg)
}

func (m model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showFilters = false
		m.statusMessage = "Filter closed"
		return m, nil
	case "enter":
		m.applyFiltersFromInputs()
		return m, nil
	case "tab", "down":
		m.inputs.focus = (m.inputs.focus + 1) % m.inputs.slots()
		m.syncFilterFocus()
		return m, nil
	case "shift+tab", "up":
		m.inputs.focus = (m.inputs.focus - 1 + m.inputs.slots()) % m.inputs.slots()
		m.syncFilterFocus()
		return m, nil
	case " ", "space", "left", "right":
		if m.inputs.selectorFocused() {
			m.inputs.chapters = m.inputs.chapters.next()
			return m, nil
		}
	}
	updated, cmd := m.updateFilterInputs(msg)
	m.inputs = updated
	return m, cmd
}

func (m *model) applyFiltersFromInputs() {
	if err := m.applyFilterInputs(); err != nil {
		m.statusMessage = err.Error()
		return
	}
	m.showFilters = false
	m.applyFiltersAndSort()
	m.statusMessage = fmt.Sprintf("Filters applied (%d videos)", len(m.filtered))
}

func (m *model) syncFilterFocus() {
	for i := range m.inputs.fields {
		if i == m.inputs.focus {
			m.inputs.fields[i].Focus()
		} else {
			m.inputs.fields[i].Blur()
		}
	}
}

func (m model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.picker
	switch {
	case key.Matches(msg, k.Filter):
		m.showFilters = true
		m.statusMessage = "Editing filters"
		return m, nil
	case key.Matches(msg, k.Open):
		return m.editSelection()
	case key.Matches(msg, k.SortName):
		return m.sortAndReport(sortByName)
	case key.Matches(msg, k.SortLength):
		return m.sortAndReport(sortByDuration)
	case key.Matches(msg, k.SortAge):
		return m.sortAndReport(sortByAge)
	case key.Matches(msg, k.SortChapters):
		return m.sortAndReport(sortByChapters)
	case key.Matches(msg, k.Reset):
		m.resetFilters()
		m.applyFiltersAndSort()
		m.statusMessage = fmt.Sprintf("Filters cleared (%d videos)", len(m.filtered))
		return m, nil
	case key.Matches(msg, k.Rescan):
		return m.rescan()
	case key.Matches(msg, k.Settings):
		m.openSettings()
		return m, nil
	}
	return m.updateTable(msg)
}

func (m model) editSelection() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.filtered) {
		return m, nil
	}
	video := m.filtered[idx]
	if video.Err != nil {
		m.statusMessage = fmt.Sprintf("Cannot open %s: %v", video.Name, video.Err)
		return m, nil
	}
	cmd := m.openEditor(video.Path)
	return m, cmd
}

func (m model) sortAndReport(field sortField) (tea.Model, tea.Cmd) {
	m.toggleSort(field)
	m.applyFiltersAndSort()
	m.statusMessage = fmt.Sprintf("Sorted %d videos by %s", len(m.filtered), m.describeSort())
	return m, nil
}

// rescan walks the root again. It waits for running probes, whose results
// would otherwise be counted against the new queue.
func (m model) rescan() (tea.Model, tea.Cmd) {
	if m.probes.active() {
		m.statusMessage = "Still probing durations, rescan later"
		return m, nil
	}
	m.loading = true
	m.statusMessage = "Rescanning..."
	return m, m.scanCmd()
}
