package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"codeberg.org/snonux/chapmark/internal/fsutil"
	"codeberg.org/snonux/chapmark/internal/library"
	"codeberg.org/snonux/chapmark/internal/timecode"
)

// now is swapped in tests.
var now = time.Now

func videoRow(v library.Video) table.Row {
	length := "(unknown)"
	switch {
	case v.Err != nil:
		length = "!" + v.Err.Error()
	case v.Duration > 0:
		length = timecode.Format(int(v.Duration.Round(time.Second) / time.Second))
	}
	marks := "--"
	if v.Chapters > 0 {
		marks = strconv.Itoa(v.Chapters)
		if v.Cast > 0 {
			marks += fmt.Sprintf(" +%d", v.Cast)
		}
	}
	return table.Row{v.Name, length, marks, humanizeAge(v.ModTime), fsutil.ShortenHome(v.Path)}
}

// renderProgressBar draws done/total as a fixed-width block bar.
func renderProgressBar(done, total, width int) string {
	if width <= 0 || total <= 0 {
		return ""
	}
	done = max(0, min(done, total))
	filled := done * width / total
	return "▕" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "▏"
}

func humanizeAge(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	age := now().Sub(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
	return t.Format("2006-01-02")
}
