// Package config loads and saves the application settings file.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/chapmark/internal/fsutil"
)

const (
	appDir   = "chapmark"
	fileName = "config.json"
	// EnvPath overrides the config file location.
	EnvPath = "CHAPMARK_CONFIG"
)

// Keys holds one chord string per transport action, e.g. "<Shift-Left>".
type Keys struct {
	PlayPause string `json:"play_pause"`
	BackSmall string `json:"back_small"`
	FwdSmall  string `json:"fwd_small"`
	BackLarge string `json:"back_large"`
	FwdLarge  string `json:"fwd_large"`
}

type Config struct {
	UpdateMs  int    `json:"update_ms"`
	SmallJump int    `json:"small_jump"`
	LargeJump int    `json:"large_jump"`
	Keys      Keys   `json:"keys"`
	LastVideo string `json:"last_video,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		UpdateMs:  500,
		SmallJump: 5,
		LargeJump: 20,
		Keys: Keys{
			PlayPause: "<space>",
			BackSmall: "<Left>",
			FwdSmall:  "<Right>",
			BackLarge: "<Shift-Left>",
			FwdLarge:  "<Shift-Right>",
		},
	}
}

// DefaultPath returns $CHAPMARK_CONFIG or the per-user config location.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return fsutil.AbsPath(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load decodes path over the defaults, so any key missing from the file,
// including single entries of the nested keys object, keeps its default.
// A missing file is not an error. On failure the defaults are returned with
// the error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, &fsutil.AccessError{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), &fsutil.AccessError{Op: "parse", Path: path, Err: err}
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg as indented JSON, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &fsutil.AccessError{Op: "create", Path: filepath.Dir(path), Err: err}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &fsutil.AccessError{Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return &fsutil.AccessError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Normalize replaces non-positive numbers and empty chords with defaults.
func (c *Config) Normalize() {
	def := Default()
	if c.UpdateMs <= 0 {
		c.UpdateMs = def.UpdateMs
	}
	if c.SmallJump <= 0 {
		c.SmallJump = def.SmallJump
	}
	if c.LargeJump <= 0 {
		c.LargeJump = def.LargeJump
	}
	fill := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
		}
	}
	fill(&c.Keys.PlayPause, def.Keys.PlayPause)
	fill(&c.Keys.BackSmall, def.Keys.BackSmall)
	fill(&c.Keys.FwdSmall, def.Keys.FwdSmall)
	fill(&c.Keys.BackLarge, def.Keys.BackLarge)
	fill(&c.Keys.FwdLarge, def.Keys.FwdLarge)
}

// UpdateInterval is UpdateMs as a duration.
func (c Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateMs) * time.Millisecond
}

// Action names one of the configurable transport actions.
type Action string

const (
	ActionPlayPause Action = "play_pause"
	ActionBackSmall Action = "back_small"
	ActionFwdSmall  Action = "fwd_small"
	ActionBackLarge Action = "back_large"
	ActionFwdLarge  Action = "fwd_large"
)

// Actions lists the transport actions in display order.
var Actions = []Action{ActionPlayPause, ActionBackSmall, ActionFwdSmall, ActionBackLarge, ActionFwdLarge}

// Chord returns the binding of a.
func (k Keys) Chord(a Action) string {
	switch a {
	case ActionPlayPause:
		return k.PlayPause
	case ActionBackSmall:
		return k.BackSmall
	case ActionFwdSmall:
		return k.FwdSmall
	case ActionBackLarge:
		return k.BackLarge
	case ActionFwdLarge:
		return k.FwdLarge
	}
	return ""
}

// SetChord rebinds a.
func (k *Keys) SetChord(a Action, chord string) {
	switch a {
	case ActionPlayPause:
		k.PlayPause = chord
	case ActionBackSmall:
		k.BackSmall = chord
	case ActionFwdSmall:
		k.FwdSmall = chord
	case ActionBackLarge:
		k.BackLarge = chord
	case ActionFwdLarge:
		k.FwdLarge = chord
	}
}
