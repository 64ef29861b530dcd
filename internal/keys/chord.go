// Package keys translates between configurable chord strings such as
// "<Control-Shift-Left>" and Bubble Tea key events.
package keys

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// teaToChord maps Bubble Tea key names to chord key names. Keys not listed
// (single runes) are used unchanged.
var teaToChord = map[string]string{
	" ":         "space",
	"space":     "space",
	"left":      "Left",
	"right":     "Right",
	"up":        "Up",
	"down":      "Down",
	"enter":     "Return",
	"esc":       "Escape",
	"tab":       "Tab",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pgup":      "Prior",
	"pgdown":    "Next",
}

var chordToTea = func() map[string]string {
	out := make(map[string]string, len(teaToChord))
	for teaName, chordName := range teaToChord {
		if teaName == "space" {
			continue
		}
		out[strings.ToLower(chordName)] = teaName
	}
	return out
}()

// Chord builds the canonical chord string: modifiers in Control, Shift,
// Alt order followed by the key name.
func Chord(key string, ctrl, shift, alt bool) string {
	parts := make([]string, 0, 4)
	if ctrl {
		parts = append(parts, "Control")
	}
	if shift {
		parts = append(parts, "Shift")
	}
	if alt {
		parts = append(parts, "Alt")
	}
	parts = append(parts, key)
	return "<" + strings.Join(parts, "-") + ">"
}

// FromKeyMsg captures a key press as a chord. It reports false for events
// that carry no usable key, such as pastes or empty rune input.
func FromKeyMsg(msg tea.KeyMsg) (string, bool) {
	if msg.Paste {
		return "", false
	}
	name := msg.String()
	alt := msg.Alt
	if alt {
		name = strings.TrimPrefix(name, "alt+")
	}
	var ctrl, shift bool
	for {
		switch {
		case strings.HasPrefix(name, "ctrl+"):
			ctrl = true
			name = strings.TrimPrefix(name, "ctrl+")
			continue
		case strings.HasPrefix(name, "shift+"):
			shift = true
			name = strings.TrimPrefix(name, "shift+")
			continue
		}
		break
	}
	if name == "" {
		return "", false
	}
	if mapped, ok := teaToChord[name]; ok {
		name = mapped
	} else if ctrl && len(name) > 1 && !isFunctionKey(name) {
		return "", false
	}
	if isFunctionKey(name) {
		name = strings.ToUpper(name)
	}
	return Chord(name, ctrl, shift, alt), true
}

// ToTea converts a chord into the string Bubble Tea reports for it.
func ToTea(chord string) (string, error) {
	trimmed := strings.TrimSpace(chord)
	if len(trimmed) < 3 || trimmed[0] != '<' || trimmed[len(trimmed)-1] != '>' {
		return "", fmt.Errorf("invalid key chord %q", chord)
	}
	body := trimmed[1 : len(trimmed)-1]
	var ctrl, shift, alt bool
	for {
		idx := strings.IndexByte(body, '-')
		if idx <= 0 || idx == len(body)-1 {
			break
		}
		switch strings.ToLower(body[:idx]) {
		case "control", "ctrl":
			ctrl = true
		case "shift":
			shift = true
		case "alt", "meta":
			alt = true
		default:
			return "", fmt.Errorf("unknown modifier in chord %q", chord)
		}
		body = body[idx+1:]
	}
	name, err := teaKeyName(body)
	if err != nil {
		return "", fmt.Errorf("chord %q: %w", chord, err)
	}
	if name == " " && (ctrl || shift) {
		return "", fmt.Errorf("chord %q: modifiers on space are not reported by terminals", chord)
	}
	var b strings.Builder
	if alt {
		b.WriteString("alt+")
	}
	if ctrl {
		b.WriteString("ctrl+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(name)
	return b.String(), nil
}

func teaKeyName(name string) (string, error) {
	lower := strings.ToLower(name)
	if lower == "space" {
		return " ", nil
	}
	if mapped, ok := chordToTea[lower]; ok {
		return mapped, nil
	}
	if isFunctionKey(name) {
		return lower, nil
	}
	if len([]rune(name)) == 1 {
		return name, nil
	}
	return "", fmt.Errorf("unknown key %q", name)
}

func isFunctionKey(name string) bool {
	if len(name) < 2 || len(name) > 3 || (name[0] != 'f' && name[0] != 'F') {
		return false
	}
	for _, r := range name[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
