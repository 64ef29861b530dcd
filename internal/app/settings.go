package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/config"
	"codeberg.org/snonux/chapmark/internal/keys"
)

type numericSetting struct {
	label string
	get   func(config.Config) int
	set   func(*config.Config, int)
}

var numericSettings = []numericSetting{
	{"Refresh interval (ms)", func(c config.Config) int { return c.UpdateMs }, func(c *config.Config, v int) { c.UpdateMs = v }},
	{"Small jump (s)", func(c config.Config) int { return c.SmallJump }, func(c *config.Config, v int) { c.SmallJump = v }},
	{"Large jump (s)", func(c config.Config) int { return c.LargeJump }, func(c *config.Config, v int) { c.LargeJump = v }},
}

var actionLabels = map[config.Action]string{
	config.ActionPlayPause: "Play / pause",
	config.ActionBackSmall: "Small jump back",
	config.ActionFwdSmall:  "Small jump forward",
	config.ActionBackLarge: "Large jump back",
	config.ActionFwdLarge:  "Large jump forward",
}

// settings edits a working copy of the config. Closing the screen applies
// and saves it.
type settings struct {
	cfg       config.Config
	cursor    int
	input     textinput.Model
	editing   bool
	capturing bool
	returnTo  screen
	status    string
}

func (m *model) openSettings() {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 6
	m.settings = &settings{cfg: m.cfg, input: in, returnTo: m.screen, status: "enter edit  •  r defaults  •  esc save and close"}
	m.screen = screenSettings
}

func settingsRows() int {
	return len(numericSettings) + len(config.Actions)
}

// action returns the key action under the cursor, if any.
func (s *settings) action() (config.Action, bool) {
	idx := s.cursor - len(numericSettings)
	if idx < 0 || idx >= len(config.Actions) {
		return "", false
	}
	return config.Actions[idx], true
}

func (m model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.settings
	if key.Matches(msg, m.keys.Quit) && !s.capturing {
		m.closeEditor()
		return m, tea.Quit
	}
	if s.capturing {
		s.capture(msg)
		return m, nil
	}
	if s.editing {
		switch msg.String() {
		case "esc":
			s.editing = false
			s.input.Blur()
			s.status = "Cancelled"
		case "enter":
			s.commitNumber()
		default:
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		s.cursor = (s.cursor - 1 + settingsRows()) % settingsRows()
	case "down", "j":
		s.cursor = (s.cursor + 1) % settingsRows()
	case "enter":
		s.startEdit()
	case "r":
		last := s.cfg.LastVideo
		s.cfg = config.Default()
		s.cfg.LastVideo = last
		s.status = "Defaults restored"
	case "esc", "q", "o":
		m.closeSettings()
	}
	return m, nil
}

func (s *settings) startEdit() {
	if a, ok := s.action(); ok {
		s.capturing = true
		s.status = fmt.Sprintf("Press the new key for %s (esc cancels)", strings.ToLower(actionLabels[a]))
		return
	}
	setting := numericSettings[s.cursor]
	s.editing = true
	s.input.SetValue(strconv.Itoa(setting.get(s.cfg)))
	s.input.CursorEnd()
	s.input.Focus()
	s.status = fmt.Sprintf("%s: enter a whole number above zero", setting.label)
}

func (s *settings) commitNumber() {
	setting := numericSettings[s.cursor]
	value, err := strconv.Atoi(strings.TrimSpace(s.input.Value()))
	if err != nil || value <= 0 {
		s.status = errorStyle.Render(fmt.Sprintf("invalid value %q", s.input.Value()))
		return
	}
	setting.set(&s.cfg, value)
	s.editing = false
	s.input.Blur()
	s.status = fmt.Sprintf("%s set to %d", setting.label, value)
}

// capture binds the next key press to the action under the cursor.
func (s *settings) capture(msg tea.KeyMsg) {
	a, _ := s.action()
	if msg.Type == tea.KeyEsc {
		s.capturing = false
		s.status = "Cancelled"
		return
	}
	chord, ok := keys.FromKeyMsg(msg)
	if !ok {
		s.status = errorStyle.Render("unsupported key, try another")
		return
	}
	if _, err := keys.ToTea(chord); err != nil {
		s.status = errorStyle.Render(err.Error())
		return
	}
	s.cfg.Keys.SetChord(a, chord)
	s.capturing = false
	s.status = fmt.Sprintf("%s bound to %s", actionLabels[a], chord)
}

// closeSettings applies the working copy to the program and the open
// editor, then saves it.
func (m *model) closeSettings() {
	s := m.settings
	km, err := keys.NewKeyMap(s.cfg)
	if err != nil {
		s.status = errorStyle.Render(err.Error())
		return
	}
	m.cfg = s.cfg
	m.keys = km
	m.screen = s.returnTo
	m.settings = nil
	status := "Settings saved"
	if err := m.saveConfig(); err != nil {
		status = fmt.Sprintf("Settings applied, save failed: %v", err)
	}
	if m.editor != nil {
		m.editor.sched.SetInterval(m.cfg.UpdateInterval())
		m.editor.status = status
		return
	}
	m.statusMessage = status
}

func (m model) renderSettings() string {
	s := m.settings
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")
	for i := 0; i < settingsRows(); i++ {
		var label, value string
		if i < len(numericSettings) {
			label = numericSettings[i].label
			value = strconv.Itoa(numericSettings[i].get(s.cfg))
			if s.editing && i == s.cursor {
				value = s.input.View()
			}
		} else {
			a := config.Actions[i-len(numericSettings)]
			label = actionLabels[a]
			value = s.cfg.Keys.Chord(a)
			if s.capturing && i == s.cursor {
				value = "…"
			}
		}
		line := fmt.Sprintf("  %-24s %s", label, value)
		if i == s.cursor {
			line = highlightStyle.Render("› " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return filterStyle.Render(b.String()) + "\n" + statusStyle.Render(s.status)
}
