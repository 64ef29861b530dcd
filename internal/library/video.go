// Package library finds the videos under a root directory and summarizes
// their chapter sidecars for the picker.
package library

import (
	"path/filepath"
	"strings"
	"time"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
	".avi":  {},
	".wmv":  {},
	".m4v":  {},
	".webm": {},
}

type Video struct {
	Name     string
	Path     string
	Duration time.Duration
	ModTime  time.Time
	Size     int64
	Chapters int
	Cast     int
	Err      error
}

// IsVideo reports whether the file extension is a known video extension.
func IsVideo(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := videoExtensions[ext]
	return ok
}
