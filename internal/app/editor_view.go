package app

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/chapmark/internal/keys"
	"codeberg.org/snonux/chapmark/internal/transport"
)

// sliderLine is the row of the slider inside the editor view.
const sliderLine = 1

func (m model) sliderWidth() int {
	return max(m.width, 20)
}

func (m model) renderEditor() string {
	e := m.editor
	if e == nil {
		return statusStyle.Render("No video open")
	}
	state := "paused"
	if e.playing {
		state = "playing"
	}
	if e.scrubbing || e.mouseDrag {
		state = "scrubbing"
	}
	label, slider := "--:-- / --:--", &transport.Slider{}
	if e.ready() {
		label, slider = e.ctrl.Label(), e.ctrl.Slider()
	} else {
		state = "starting"
	}
	header := fmt.Sprintf("%s  %s  %s", titleStyle.Render(e.name), statusStyle.Render("["+state+"]"), label)
	parts := []string{
		header,
		sliderStyle.Render(slider.Bar(m.sliderWidth())),
	}
	if e.pane == paneCast {
		parts = append(parts, tableStyle.Render(e.castTable.View()))
	} else {
		parts = append(parts, tableStyle.Render(e.chapterTable.View()))
	}
	switch {
	case e.confirm != nil:
		parts = append(parts, highlightStyle.Render(e.confirm.prompt+" (y/N)"))
	case e.session != nil:
		parts = append(parts, m.renderSession())
	}
	parts = append(parts, statusStyle.Render(e.status), m.editorHelp())
	return strings.Join(parts, "\n")
}

func (m model) renderSession() string {
	s := m.editor.session
	line := fmt.Sprintf("%s: %s", s.label(), s.input.View())
	if s.original != "" {
		line += statusStyle.Render(fmt.Sprintf("  (was %s)", s.original))
	}
	return filterStyle.Render(line + "\n" + statusStyle.Render("Enter to save, Esc to cancel"))
}

func (m model) editorHelp() string {
	e := m.editor
	km := m.keys
	if e.scrubbing {
		return statusStyle.Render("←/→ move  •  ⇧←/⇧→ move more  •  enter release")
	}
	transportHelp := keys.Help(km.Transport()...)
	var editing string
	if e.pane == paneCast {
		editing = keys.Help(km.Add, km.Remove, km.Edit, km.TogglePane, km.Settings, km.Close)
	} else {
		editing = keys.Help(km.Stop, km.Add, km.AddSub, km.Remove, km.NextColumn, km.Edit, km.TogglePane, km.Scrub, km.Settings, km.Close)
	}
	return statusStyle.Render(transportHelp + "\n" + editing)
}
