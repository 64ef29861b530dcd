package app

import (
	"time"

	"codeberg.org/snonux/chapmark/internal/library"
)

type videosLoadedMsg struct {
	videos     []library.Video
	err        error
	cacheErr   error
	sidecarErr error
	pending    []string
	cache      *library.DurationCache
}

type progressUpdateMsg struct {
	processed int
	total     int
	done      bool
}

type durationUpdateMsg struct {
	path     string
	duration time.Duration
	err      error
}
