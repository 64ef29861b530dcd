package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Target is a resolved --root argument: either a single video or a
// directory to browse.
type Target struct {
	Path   string
	IsFile bool
}

// ResolveTarget expands and validates the supplied path. An empty input
// resolves to fallback, which must exist as well.
func ResolveTarget(input, fallback string) (Target, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		value = fallback
	}
	abs, err := AbsPath(value)
	if err != nil {
		return Target{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Target{}, fmt.Errorf("path does not exist: %s", abs)
		}
		return Target{}, fmt.Errorf("cannot access path %q: %w", abs, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return Target{}, fmt.Errorf("path %q is not a file or directory", abs)
	}
	return Target{Path: abs, IsFile: !info.IsDir()}, nil
}

// AbsPath expands a leading ~ or ~user and makes the result absolute.
func AbsPath(p string) (string, error) {
	expanded, err := expandPath(p)
	if err != nil {
		return "", fmt.Errorf("cannot expand path %q: %w", p, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", expanded, err)
	}
	return abs, nil
}

// ShortenHome is the display inverse of AbsPath for the current user.
func ShortenHome(p string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(p, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return p
}

// Exists reports whether p names an existing regular file.
func Exists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func expandPath(p string) (string, error) {
	if p == "" || p[0] != '~' {
		return p, nil
	}
	if len(p) == 1 || p[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/")), nil
	}
	username, rest := splitUserPath(p)
	usr, err := user.Lookup(username)
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, rest), nil
}

func splitUserPath(p string) (string, string) {
	sep := strings.IndexRune(p, '/')
	if sep == -1 {
		return p[1:], ""
	}
	return p[1:sep], p[sep:]
}
