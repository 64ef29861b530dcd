package library

import (
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	cacheFileName = ".chapmark_durations.json"
	cacheVersion  = 1
)

// stamp identifies the file content an entry was probed from.
type stamp struct {
	Size    int64 `json:"size"`
	ModTime int64 `json:"mtime_ns"`
}

func stampOf(info os.FileInfo) stamp {
	return stamp{Size: info.Size(), ModTime: info.ModTime().UnixNano()}
}

type cacheEntry struct {
	stamp
	DurationMs int64 `json:"duration_ms"`
}

type cacheDocument struct {
	Version int                   `json:"version"`
	Entries map[string]cacheEntry `json:"entries"`
}

// DurationCache maps video paths to probed durations. An entry is only
// valid while the file keeps the size and mtime it was probed with. It is
// safe for concurrent use by probe commands.
type DurationCache struct {
	path string

	mu      sync.Mutex
	entries map[string]cacheEntry
	dirty   bool
}

// CachePath is the cache file for a library root; a single video keeps
// its cache in the enclosing directory.
func CachePath(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}
	return filepath.Join(root, cacheFileName)
}

func NewDurationCache(path string) *DurationCache {
	return &DurationCache{path: path, entries: map[string]cacheEntry{}}
}

// LoadDurationCache never returns nil. A missing file or a document of
// another version gives an empty cache without error.
func LoadDurationCache(path string) (*DurationCache, error) {
	c := NewDurationCache(path)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, nil
	case err != nil:
		return c, err
	case len(data) == 0:
		return c, nil
	}
	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return c, err
	}
	if doc.Version == cacheVersion && doc.Entries != nil {
		c.entries = doc.Entries
	}
	return c, nil
}

func (c *DurationCache) Lookup(path string, info os.FileInfo) (time.Duration, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[path]
	if !ok {
		return 0, false
	}
	if entry.stamp != stampOf(info) || entry.DurationMs <= 0 {
		delete(c.entries, path)
		c.dirty = true
		return 0, false
	}
	return time.Duration(entry.DurationMs) * time.Millisecond, true
}

func (c *DurationCache) Record(path string, info os.FileInfo, dur time.Duration) {
	if c == nil || dur <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry{stamp: stampOf(info), DurationMs: dur.Milliseconds()}
	c.dirty = true
}

// Prune drops entries for paths not in keep, i.e. videos that vanished
// since the last scan.
func (c *DurationCache) Prune(keep []string) {
	if c == nil {
		return
	}
	live := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		live[p] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.entries {
		if _, ok := live[p]; !ok {
			delete(c.entries, p)
			c.dirty = true
		}
	}
}

func (c *DurationCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush writes the cache if it changed. The file is replaced by rename so
// a crash never leaves a truncated cache behind.
func (c *DurationCache) Flush() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	doc := cacheDocument{Version: cacheVersion, Entries: maps.Clone(c.entries)}
	c.dirty = false
	c.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), cacheFileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
