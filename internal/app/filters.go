package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/library"
	"codeberg.org/snonux/chapmark/internal/timecode"
)

// chapterFilter narrows the picker by whether a video has a sidecar with
// at least one chapter.
type chapterFilter int

const (
	chaptersAny chapterFilter = iota
	chaptersMarked
	chaptersUnmarked
)

func (c chapterFilter) String() string {
	switch c {
	case chaptersMarked:
		return "with chapters"
	case chaptersUnmarked:
		return "without chapters"
	default:
		return "any"
	}
}

func (c chapterFilter) next() chapterFilter {
	return (c + 1) % 3
}

func (c chapterFilter) admits(v library.Video) bool {
	switch c {
	case chaptersMarked:
		return v.Chapters > 0
	case chaptersUnmarked:
		return v.Chapters == 0
	default:
		return true
	}
}

const (
	inputName = iota
	inputMinLength
	inputMaxLength
)

// A zero bound is unset.
type filterState struct {
	name      string
	minLength time.Duration
	maxLength time.Duration
	chapters  chapterFilter
}

func (f filterState) active() bool {
	return f != filterState{}
}

// filterInputs holds the text fields followed by the chapter selector;
// focus == len(fields) selects the latter.
type filterInputs struct {
	fields   []textinput.Model
	chapters chapterFilter
	focus    int
}

func (in filterInputs) slots() int {
	return len(in.fields) + 1
}

func (in filterInputs) selectorFocused() bool {
	return in.focus == len(in.fields)
}

func (m *model) applyFilterInputs() error {
	filters := filterState{
		name:     strings.TrimSpace(m.inputs.fields[inputName].Value()),
		chapters: m.inputs.chapters,
	}
	var err error
	if filters.minLength, err = parseLengthBound("min", m.inputs.fields[inputMinLength].Value()); err != nil {
		return err
	}
	if filters.maxLength, err = parseLengthBound("max", m.inputs.fields[inputMaxLength].Value()); err != nil {
		return err
	}
	if filters.minLength > 0 && filters.maxLength > 0 && filters.minLength > filters.maxLength {
		return errors.New("min length cannot exceed max length")
	}
	m.filters = filters
	return nil
}

// parseLengthBound reads a bound with the chapter time grammar, so "45:00",
// "1:30:00" and "13000" all work.
func parseLengthBound(label, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if strings.HasPrefix(value, "-") {
		return 0, fmt.Errorf("%s length must be positive", label)
	}
	seconds, err := timecode.ParseFlexible(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s length %q: %w", label, value, err)
	}
	return time.Duration(seconds) * time.Second, nil
}

func (m *model) resetFilters() {
	m.filters = filterState{}
	m.inputs.chapters = chaptersAny
	for i := range m.inputs.fields {
		m.inputs.fields[i].SetValue("")
	}
}

func (m *model) updateFilterInputs(msg tea.Msg) (filterInputs, tea.Cmd) {
	inputs := m.inputs
	if inputs.selectorFocused() {
		return inputs, nil
	}
	var cmd tea.Cmd
	inputs.fields[inputs.focus], cmd = inputs.fields[inputs.focus].Update(msg)
	return inputs, cmd
}

func (m model) describeFilters() string {
	var parts []string
	if m.filters.name != "" {
		parts = append(parts, fmt.Sprintf("name contains %q", m.filters.name))
	}
	if m.filters.minLength > 0 {
		parts = append(parts, ">="+timecode.Format(int(m.filters.minLength/time.Second)))
	}
	if m.filters.maxLength > 0 {
		parts = append(parts, "<="+timecode.Format(int(m.filters.maxLength/time.Second)))
	}
	if m.filters.chapters != chaptersAny {
		parts = append(parts, m.filters.chapters.String())
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}

// passesFilters rejects videos of unknown length as soon as a length bound
// is set.
func (m *model) passesFilters(v library.Video) bool {
	f := m.filters
	if f.name != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(f.name)) {
		return false
	}
	if (f.minLength > 0 || f.maxLength > 0) && v.Duration <= 0 {
		return false
	}
	length := v.Duration.Round(time.Second)
	if f.minLength > 0 && length < f.minLength {
		return false
	}
	if f.maxLength > 0 && length > f.maxLength {
		return false
	}
	return f.chapters.admits(v)
}

func (m *model) renderFilterModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Filter videos"))
	b.WriteString("\n(Enter to apply, Esc to cancel, Space cycles the chapter filter)\n\n")
	for i, field := range m.inputs.fields {
		line := field.View()
		if i == m.inputs.focus {
			line = highlightStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	selector := "Chapters: " + m.inputs.chapters.String()
	if m.inputs.selectorFocused() {
		selector = highlightStyle.Render(selector)
	}
	b.WriteString(selector + "\n")
	if m.filters.active() {
		b.WriteString("\nCurrent filter: " + m.describeFilters() + "\n")
	}
	return filterStyle.Render(b.String())
}
