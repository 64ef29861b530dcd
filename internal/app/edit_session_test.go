package app

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/chapters"
)

func TestEditSessionLiveFormatsTime(t *testing.T) {
	node := &chapters.Chapter{Title: "Intro", Start: 0, End: 10}
	s := editChapterTime(node, chapters.FieldEnd)
	if s.original != "00:10" {
		t.Fatalf("expected original 00:10, got %q", s.original)
	}
	s.input.SetValue("")
	for _, r := range "130" {
		s.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := s.input.Value(); got != "1:30" {
		t.Fatalf("expected 1:30, got %q", got)
	}
	if s.label() != "Edit end" {
		t.Fatalf("unexpected label %q", s.label())
	}
}

func TestEditSessionCommitWriteFailureCloses(t *testing.T) {
	video := filepath.Join(t.TempDir(), "missing", "clip.mp4")
	store, err := chapters.Open(video)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	node, _ := store.AddChapter(0, 30)
	s := editChapterTitle(node)
	s.input.SetValue("Warmup")
	done, err := s.commit(store)
	if !done {
		t.Fatalf("expected write failure to close the session")
	}
	if !isAccessError(err) {
		t.Fatalf("expected access error, got %v", err)
	}
	if node.Title != "Warmup" {
		t.Fatalf("expected in-memory rename kept, got %q", node.Title)
	}
}

func TestEditSessionCommitParseErrorStaysOpen(t *testing.T) {
	store, err := chapters.Open(filepath.Join(t.TempDir(), "clip.mp4"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	node, _ := store.AddChapter(5, 30)
	s := editChapterTime(node, chapters.FieldStart)
	s.input.SetValue("1:xx")
	done, err := s.commit(store)
	if done || err == nil {
		t.Fatalf("expected open session with error, done=%v err=%v", done, err)
	}
	if node.Start != 5 {
		t.Fatalf("expected start untouched, got %d", node.Start)
	}
}

func TestConfirmationAnswer(t *testing.T) {
	calls := 0
	errRemove := errors.New("remove failed")
	c := &confirmation{prompt: "Remove?", onYes: func() error {
		calls++
		return errRemove
	}}
	if accepted, _ := c.answer(keyMsg("n")); accepted {
		t.Fatalf("expected n to decline")
	}
	if accepted, _ := c.answer(tea.KeyMsg{Type: tea.KeyEnter}); accepted {
		t.Fatalf("expected enter to decline")
	}
	accepted, err := c.answer(keyMsg("Y"))
	if !accepted || !errors.Is(err, errRemove) {
		t.Fatalf("expected accepted with error, got %v %v", accepted, err)
	}
	if calls != 1 {
		t.Fatalf("expected one removal, got %d", calls)
	}
}
