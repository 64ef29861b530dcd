package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// CollectPaths returns the sorted video paths below root. Paths keep the
// names they were reached by, so a video under a symlinked directory is
// listed below the link. Every real directory is read at most once and
// hidden directories are skipped. A single video file yields itself.
func CollectPaths(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if IsVideo(root) {
			return []string{root}, nil
		}
		return nil, nil
	}
	w := walker{seen: map[string]struct{}{}}
	if err := w.dir(root, root); err != nil {
		return nil, err
	}
	slices.Sort(w.found)
	return w.found, nil
}

type walker struct {
	seen  map[string]struct{}
	found []string
}

func (w *walker) dir(shown, real string) error {
	if resolved, err := filepath.EvalSymlinks(real); err == nil {
		real = resolved
	}
	real = filepath.Clean(real)
	if _, ok := w.seen[real]; ok {
		return nil
	}
	w.seen[real] = struct{}{}

	entries, err := os.ReadDir(real)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		shownChild, realChild := filepath.Join(shown, name), filepath.Join(real, name)
		mode := entry.Type()
		switch {
		case mode&fs.ModeSymlink != 0:
			if err := w.link(shownChild, realChild); err != nil {
				return err
			}
		case mode.IsDir():
			if strings.HasPrefix(name, ".") {
				continue
			}
			if err := w.dir(shownChild, realChild); err != nil {
				return err
			}
		default:
			w.add(shownChild)
		}
	}
	return nil
}

// link follows a symlink. Dangling links with a video name are still
// listed so the picker can show their stat error.
func (w *walker) link(shown, real string) error {
	target, err := filepath.EvalSymlinks(real)
	if err != nil {
		w.add(shown)
		return nil
	}
	info, err := os.Stat(target)
	switch {
	case err != nil:
		w.add(shown)
	case info.IsDir():
		return w.dir(shown, target)
	case IsVideo(shown) || IsVideo(target):
		w.found = append(w.found, shown)
	}
	return nil
}

func (w *walker) add(path string) {
	if IsVideo(path) {
		w.found = append(w.found, path)
	}
}
