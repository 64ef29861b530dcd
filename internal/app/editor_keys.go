package app

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/keys"
	"codeberg.org/snonux/chapmark/internal/transport"
)

func (m model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if key.Matches(msg, m.keys.Quit) {
		m.closeEditor()
		return m, tea.Quit
	}
	switch {
	case e.confirm != nil:
		m.answerConfirmation(msg)
		return m, nil
	case e.session != nil:
		return m.handleSessionKey(msg)
	case e.scrubbing:
		m.handleScrubKey(msg)
		return m, nil
	}

	km := m.keys
	if !e.ready() && needsPlayer(km, e.pane, msg) {
		e.status = statusStarting
		return m, nil
	}
	switch {
	case key.Matches(msg, km.Close):
		return m.leaveEditor()
	case key.Matches(msg, km.PlayPause):
		e.togglePlay()
	case key.Matches(msg, km.BackSmall):
		e.jump(-m.cfg.SmallJump)
	case key.Matches(msg, km.FwdSmall):
		e.jump(m.cfg.SmallJump)
	case key.Matches(msg, km.BackLarge):
		e.jump(-m.cfg.LargeJump)
	case key.Matches(msg, km.FwdLarge):
		e.jump(m.cfg.LargeJump)
	case key.Matches(msg, km.Stop):
		e.stop()
	case key.Matches(msg, km.Add):
		if e.pane == paneCast {
			e.addCast()
		} else {
			e.addChapter()
		}
	case key.Matches(msg, km.AddSub):
		if e.pane == paneChapters {
			e.addSubchapter()
		}
	case key.Matches(msg, km.Remove):
		e.askRemove()
	case key.Matches(msg, km.NextColumn):
		e.nextColumn()
	case key.Matches(msg, km.Edit):
		e.startEdit()
	case key.Matches(msg, km.TogglePane):
		e.togglePane()
	case key.Matches(msg, km.Scrub):
		e.startScrub()
	case key.Matches(msg, km.Settings):
		m.openSettings()
	default:
		return m.updateEditorTable(msg)
	}
	return m, nil
}

// needsPlayer reports keys that read or move the playback position.
func needsPlayer(km keys.KeyMap, p pane, msg tea.KeyMsg) bool {
	if key.Matches(msg, km.Stop, km.Scrub) || key.Matches(msg, km.Transport()...) {
		return true
	}
	return p == paneChapters && key.Matches(msg, km.Add)
}

func (m model) updateEditorTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	e := m.editor
	var cmd tea.Cmd
	if e.pane == paneCast {
		e.castTable, cmd = e.castTable.Update(msg)
		return m, cmd
	}
	e.chapterTable, cmd = e.chapterTable.Update(msg)
	e.seekToSelection()
	return m, cmd
}

func (m *model) answerConfirmation(msg tea.KeyMsg) {
	e := m.editor
	c := e.confirm
	e.confirm = nil
	accepted, err := c.answer(msg)
	if !accepted {
		e.status = "Kept"
		return
	}
	e.report(err, "Removed")
}

func (m model) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	switch msg.String() {
	case "esc":
		e.cancelEdit()
		return m, nil
	case "enter":
		e.commitEdit()
		return m, nil
	}
	return m, e.session.update(msg)
}

func (m *model) handleScrubKey(msg tea.KeyMsg) {
	e := m.editor
	switch msg.String() {
	case "left", "h":
		e.scrubBy(-scrubStep)
	case "right", "l":
		e.scrubBy(scrubStep)
	case "shift+left", "H":
		e.scrubBy(-scrubStepLarge)
	case "shift+right", "L":
		e.scrubBy(scrubStepLarge)
	case "home":
		e.scrubBy(-transport.SliderMax)
	case "end":
		e.scrubBy(transport.SliderMax)
	case "enter", "g", "esc":
		e.endScrub()
	}
}

// leaveEditor returns to the picker, or quits when a single video was opened.
func (m model) leaveEditor() (tea.Model, tea.Cmd) {
	name := m.editor.name
	m.closeEditor()
	if m.opts.SingleFile {
		return m, tea.Quit
	}
	m.screen = screenPicker
	m.statusMessage = fmt.Sprintf("Closed %s", name)
	return m, nil
}

// handleMouse drags the slider with the left button. The slider is drawn on
// the second line of the editor view.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenEditor || m.editor == nil {
		return m, nil
	}
	e := m.editor
	width := m.sliderWidth()
	switch msg.Action {
	case tea.MouseActionPress:
		if !e.ready() || msg.Button != tea.MouseButtonLeft || msg.Y != sliderLine || e.session != nil || e.confirm != nil {
			return m, nil
		}
		e.mouseDrag = true
		e.ctrl.DragStart()
		e.report(e.ctrl.DragMove(transport.ValueAt(msg.X, width)), "")
	case tea.MouseActionMotion:
		if e.mouseDrag {
			e.report(e.ctrl.DragMove(transport.ValueAt(msg.X, width)), "")
		}
	case tea.MouseActionRelease:
		if e.mouseDrag {
			e.endScrub()
		}
	}
	return m, nil
}

// handleBlur cancels an open edit when the terminal loses focus.
func (m model) handleBlur() (tea.Model, tea.Cmd) {
	if m.editor != nil && m.editor.session != nil {
		m.editor.cancelEdit()
	}
	return m, nil
}

func (m model) handleTick(msg transport.TickMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil || !m.editor.ready() {
		return m, nil
	}
	handled, err := m.editor.ctrl.HandleTick(msg)
	if err != nil {
		log.Printf("refresh %s: %v", m.editor.name, err)
	}
	if handled {
		m.editor.refreshPlaying()
	}
	return m, nil
}
