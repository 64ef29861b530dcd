package app

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/library"
)

func loadVideosCmd(root, cachePath string, progress *library.Progress) tea.Cmd {
	return func() tea.Msg {
		cache, cacheErr := library.LoadDurationCache(cachePath)
		res, err := library.Scan(context.Background(), root, cache, progress)
		return videosLoadedMsg{
			videos:     res.Videos,
			err:        err,
			cacheErr:   cacheErr,
			sidecarErr: res.SidecarErr,
			pending:    res.Pending,
			cache:      cache,
		}
	}
}

func progressTickerCmd(progress *library.Progress) tea.Cmd {
	if progress == nil {
		return nil
	}
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		processed, total, done := progress.Snapshot()
		return progressUpdateMsg{processed: processed, total: total, done: done}
	})
}

func probeDurationCmd(path string, cache *library.DurationCache) tea.Cmd {
	return func() tea.Msg {
		dur, err := library.ProbeDuration(context.Background(), path)
		if err == nil {
			if info, statErr := os.Stat(path); statErr == nil {
				cache.Record(path, info, dur)
			}
		}
		return durationUpdateMsg{path: path, duration: dur, err: err}
	}
}
