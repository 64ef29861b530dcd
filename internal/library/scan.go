package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/chapmark/internal/chapters"
)

const sidecarWorkers = 4

// Result is the outcome of a scan. Pending lists videos without a cached
// duration. SidecarErr joins per-video sidecar read failures.
type Result struct {
	Videos     []Video
	Pending    []string
	SidecarErr error
}

// Scan collects the videos under root with their cached durations and
// sidecar summaries, and drops cache entries of videos that are gone.
// Only a failure to walk root is returned as an error.
func Scan(ctx context.Context, root string, cache *DurationCache, progress *Progress) (Result, error) {
	defer progress.MarkDone()

	paths, err := CollectPaths(root)
	if err != nil {
		return Result{}, err
	}
	progress.SetTotal(len(paths))
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		cache.Prune(paths)
	}

	res := Result{Videos: make([]Video, len(paths)), Pending: []string{}}
	for i, path := range paths {
		v := Video{Name: filepath.Base(path), Path: path}
		info, statErr := os.Stat(path)
		if statErr != nil {
			v.Err = statErr
		} else {
			v.ModTime = info.ModTime()
			v.Size = info.Size()
			if dur, ok := cache.Lookup(path, info); ok {
				v.Duration = dur
			} else {
				res.Pending = append(res.Pending, path)
			}
		}
		res.Videos[i] = v
	}

	var (
		mu     sync.Mutex
		failed []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sidecarWorkers)
	for i := range res.Videos {
		v := &res.Videos[i]
		g.Go(func() error {
			defer progress.Increment()
			if err := ctx.Err(); err != nil {
				return err
			}
			if v.Err != nil {
				return nil
			}
			project, err := chapters.ReadProject(chapters.PathFor(v.Path))
			if err != nil {
				mu.Lock()
				failed = append(failed, fmt.Sprintf("%s: %v", v.Name, err))
				mu.Unlock()
				return nil
			}
			v.Chapters = len(chapters.Flatten(project.Chapters))
			v.Cast = len(project.Casting)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	res.SidecarErr = joinErrors(failed)
	return res, nil
}

func joinErrors(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	slices.Sort(msgs)
	errs := make([]error, len(msgs))
	for i, msg := range msgs {
		errs[i] = errors.New(msg)
	}
	return errors.Join(errs...)
}
