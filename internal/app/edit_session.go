package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/chapters"
	"codeberg.org/snonux/chapmark/internal/fsutil"
	"codeberg.org/snonux/chapmark/internal/timecode"
)

type editKind int

const (
	editTitle editKind = iota
	editTime
	editCast
)

// editSession is one open inline edit. It holds the edited target and the
// value the cell had when the edit started.
type editSession struct {
	kind     editKind
	node     *chapters.Chapter
	field    chapters.Field
	castIdx  int
	original string
	input    textinput.Model
}

func newEditSession(kind editKind, original string) *editSession {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 256
	in.SetValue(original)
	in.CursorEnd()
	in.Focus()
	return &editSession{kind: kind, original: original, input: in}
}

func editChapterTitle(node *chapters.Chapter) *editSession {
	s := newEditSession(editTitle, node.Title)
	s.node = node
	return s
}

func editChapterTime(node *chapters.Chapter, field chapters.Field) *editSession {
	value := node.Start
	if field == chapters.FieldEnd {
		value = node.End
	}
	s := newEditSession(editTime, timecode.Format(value))
	s.node = node
	s.field = field
	s.input.CharLimit = 16
	return s
}

func editCastName(idx int, name string) *editSession {
	s := newEditSession(editCast, name)
	s.castIdx = idx
	return s
}

// update feeds a key to the input. Time fields are re-punctuated after
// every keystroke.
func (s *editSession) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.kind == editTime {
		formatted := timecode.LiveFormat(s.input.Value())
		if formatted != s.input.Value() {
			s.input.SetValue(formatted)
			s.input.CursorEnd()
		}
	}
	return cmd
}

func (s *editSession) label() string {
	switch s.kind {
	case editTime:
		return "Edit " + s.field.String()
	case editCast:
		return "Edit name"
	}
	return "Edit title"
}

// commit applies the typed value. done reports whether the session is
// finished; a value that does not parse leaves it open.
func (s *editSession) commit(store *chapters.Store) (done bool, err error) {
	value := s.input.Value()
	switch s.kind {
	case editTitle:
		err = store.Rename(s.node, value)
	case editTime:
		err = store.Retime(s.node, s.field, value)
	case editCast:
		err = store.RenameCast(s.castIdx, value)
	}
	if err != nil && !isAccessError(err) {
		return false, err
	}
	s.input.Blur()
	return true, err
}

func (s *editSession) cancel() {
	s.input.Blur()
}

func isAccessError(err error) bool {
	var accessErr *fsutil.AccessError
	return errors.As(err, &accessErr)
}

// confirmation asks before a destructive action. Anything but y declines.
type confirmation struct {
	prompt string
	onYes  func() error
}

func (c *confirmation) answer(msg tea.KeyMsg) (accepted bool, err error) {
	switch msg.String() {
	case "y", "Y":
		return true, c.onYes()
	}
	return false, nil
}
