package keys

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"codeberg.org/snonux/chapmark/internal/config"
)

// KeyMap holds the editor bindings. The transport bindings come from the
// config file; the rest are fixed.
type KeyMap struct {
	PlayPause key.Binding
	BackSmall key.Binding
	FwdSmall  key.Binding
	BackLarge key.Binding
	FwdLarge  key.Binding

	Stop       key.Binding
	Add        key.Binding
	AddSub     key.Binding
	Remove     key.Binding
	NextColumn key.Binding
	Edit       key.Binding
	TogglePane key.Binding
	Scrub      key.Binding
	Settings   key.Binding
	Close      key.Binding
	Quit       key.Binding
}

// NewKeyMap builds the key map for the configured chords and jump sizes.
func NewKeyMap(cfg config.Config) (KeyMap, error) {
	km := DefaultKeyMap()
	transport := []struct {
		dst    *key.Binding
		action config.Action
		help   string
	}{
		{&km.PlayPause, config.ActionPlayPause, "play/pause"},
		{&km.BackSmall, config.ActionBackSmall, fmt.Sprintf("-%ds", cfg.SmallJump)},
		{&km.FwdSmall, config.ActionFwdSmall, fmt.Sprintf("+%ds", cfg.SmallJump)},
		{&km.BackLarge, config.ActionBackLarge, fmt.Sprintf("-%ds", cfg.LargeJump)},
		{&km.FwdLarge, config.ActionFwdLarge, fmt.Sprintf("+%ds", cfg.LargeJump)},
	}
	for _, t := range transport {
		chord := cfg.Keys.Chord(t.action)
		name, err := ToTea(chord)
		if err != nil {
			return DefaultKeyMap(), fmt.Errorf("key %s: %w", t.action, err)
		}
		keyNames := []string{name}
		if name == " " {
			keyNames = append(keyNames, "space")
		}
		*t.dst = key.NewBinding(key.WithKeys(keyNames...), key.WithHelp(helpName(chord), t.help))
	}
	return km, nil
}

// DefaultKeyMap returns the bindings for the built-in config.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		BackSmall: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-5s")),
		FwdSmall:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+5s")),
		BackLarge: key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "-20s")),
		FwdLarge:  key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "+20s")),

		Stop:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		AddSub:     key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add sub")),
		Remove:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		NextColumn: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "column")),
		Edit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		TogglePane: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cast/chapters")),
		Scrub:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "scrub")),
		Settings:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "settings")),
		Close:      key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("q", "close")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// Transport returns the five configurable bindings in config.Actions order.
func (k KeyMap) Transport() []key.Binding {
	return []key.Binding{k.PlayPause, k.BackSmall, k.FwdSmall, k.BackLarge, k.FwdLarge}
}

// Help renders a one-line summary of bindings.
func Help(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  •  ")
}

func helpName(chord string) string {
	return strings.Trim(strings.TrimSpace(chord), "<>")
}

// PickerKeyMap holds the fixed bindings of the video picker. Row movement
// is left to the table's own key map.
type PickerKeyMap struct {
	Open         key.Binding
	Filter       key.Binding
	Reset        key.Binding
	SortName     key.Binding
	SortLength   key.Binding
	SortAge      key.Binding
	SortChapters key.Binding
	Rescan       key.Binding
	Settings     key.Binding
	Quit         key.Binding
}

func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit chapters")),
		Filter:       key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		SortName:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "name")),
		SortLength:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "length")),
		SortAge:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "age")),
		SortChapters: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chapters")),
		Rescan:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rescan")),
		Settings:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "settings")),
		Quit:         key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// Help lists the picker bindings in display order.
func (k PickerKeyMap) Help() string {
	return Help(k.Open, k.Filter, k.Reset, k.SortName, k.SortLength, k.SortAge, k.SortChapters, k.Rescan, k.Settings, k.Quit)
}
