package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/library"
)

func TestParseLengthBound(t *testing.T) {
	cases := map[string]time.Duration{
		"":        0,
		" 45:00 ": 45 * time.Minute,
		"1:30:00": 90 * time.Minute,
		"13000":   90 * time.Minute,
		"90":      90 * time.Second,
	}
	for in, want := range cases {
		got, err := parseLengthBound("min", in)
		if err != nil || got != want {
			t.Fatalf("parseLengthBound(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"-5:00", "abc", "1:2:3:4"} {
		if _, err := parseLengthBound("max", bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
	if _, err := parseLengthBound("max", "abc"); !strings.Contains(err.Error(), "invalid max length") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestResetFiltersClearsInputs(t *testing.T) {
	m, err := newModel(Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.filters = filterState{name: "x", minLength: time.Minute, chapters: chaptersMarked}
	m.inputs.chapters = chaptersMarked
	for i := range m.inputs.fields {
		m.inputs.fields[i].SetValue("7")
	}
	m.resetFilters()
	if m.filters.active() || m.inputs.chapters != chaptersAny {
		t.Fatalf("expected filters cleared, got %+v", m.filters)
	}
	for i, field := range m.inputs.fields {
		if field.Value() != "" {
			t.Fatalf("expected field %d cleared", i)
		}
	}
}

func TestFilterChapterSelector(t *testing.T) {
	m, err := newModel(Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	modelAny, _ := m.handleVideosLoaded(videosLoadedMsg{videos: []library.Video{
		{Name: "marked.mp4", Path: "marked.mp4", Chapters: 3},
		{Name: "bare.mp4", Path: "bare.mp4"},
	}})
	m = modelAny.(model)
	m = send(t, m, keyMsg("/"), special(tea.KeyShiftTab))
	if !m.inputs.selectorFocused() {
		t.Fatalf("expected shift+tab to wrap onto the chapter selector")
	}
	m = send(t, m, keyMsg(" "), keyMsg(" "))
	if m.inputs.chapters != chaptersUnmarked {
		t.Fatalf("expected without chapters, got %v", m.inputs.chapters)
	}
	if !strings.Contains(m.renderFilterModal(), "Chapters: without chapters") {
		t.Fatalf("expected selector in modal")
	}
	m = send(t, m, special(tea.KeyEnter))
	if len(m.filtered) != 1 || m.filtered[0].Name != "bare.mp4" {
		t.Fatalf("expected only bare.mp4, got %+v", m.filtered)
	}
	if !strings.Contains(m.View(), "Filter: without chapters") {
		t.Fatalf("expected active filter in view")
	}
}

func TestFilterSpaceTypesIntoTextField(t *testing.T) {
	m, err := newModel(Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.loading = false
	m = send(t, m, keyMsg("/"), keyMsg("a"), keyMsg(" "), keyMsg("b"))
	if got := m.inputs.fields[inputName].Value(); got != "a b" {
		t.Fatalf("expected typed name, got %q", got)
	}
	if m.inputs.chapters != chaptersAny {
		t.Fatalf("expected selector untouched")
	}
}
