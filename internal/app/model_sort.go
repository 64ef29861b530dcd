package app

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"codeberg.org/snonux/chapmark/internal/library"
)

type sortField int

const (
	sortByName sortField = iota
	sortByDuration
	sortByAge
	sortByChapters
)

func (f sortField) String() string {
	switch f {
	case sortByDuration:
		return "length"
	case sortByAge:
		return "age"
	case sortByChapters:
		return "chapters"
	default:
		return "name"
	}
}

// compare orders two videos by the field; ties fall back to the name so
// the listing is stable across rescans.
func (f sortField) compare(a, b library.Video) int {
	var c int
	switch f {
	case sortByDuration:
		c = cmp.Compare(a.Duration, b.Duration)
	case sortByAge:
		c = a.ModTime.Compare(b.ModTime)
	case sortByChapters:
		c = cmp.Compare(a.Chapters, b.Chapters)
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// Selecting the active field again flips the direction.
func (m *model) toggleSort(target sortField) {
	if m.sortField == target {
		m.sortAscending = !m.sortAscending
		return
	}
	m.sortField = target
	m.sortAscending = true
}

func (m model) describeSort() string {
	dir := "ascending"
	if !m.sortAscending {
		dir = "descending"
	}
	return fmt.Sprintf("%s, %s", m.sortField, dir)
}

func (m *model) applyFiltersAndSort() {
	filtered := slices.DeleteFunc(slices.Clone(m.videos), func(v library.Video) bool {
		return !m.passesFilters(v)
	})
	slices.SortStableFunc(filtered, func(a, b library.Video) int {
		c := m.sortField.compare(a, b)
		if !m.sortAscending {
			return -c
		}
		return c
	})
	m.filtered = filtered
	m.updateTableRows()
}

func (m *model) updateTableRows() {
	rows := make([]table.Row, len(m.filtered))
	for i, v := range m.filtered {
		rows[i] = videoRow(v)
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(0)
	}
}
