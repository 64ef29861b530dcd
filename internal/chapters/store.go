package chapters

import (
	"fmt"
	"slices"
	"strings"

	"codeberg.org/snonux/chapmark/internal/timecode"
)

const (
	// DefaultCastName is used by AddCast when no name is given.
	DefaultCastName = "New name"
	// fallbackLength is added to the start when the video length is unknown.
	fallbackLength = 10
)

// Store owns the chapter tree and cast list of a single video. Every
// mutation rewrites the whole sidecar; in-memory state survives write
// failures so the user can retry. A Store is used from the UI goroutine only.
type Store struct {
	videoPath string
	path      string
	chapters  []*Chapter
	casting   []string
}

// Open binds a store to videoPath and loads its sidecar. A sidecar that
// cannot be read yields an empty store together with the error.
func Open(videoPath string) (*Store, error) {
	s := &Store{videoPath: videoPath, path: PathFor(videoPath)}
	err := s.Load()
	return s, err
}

func (s *Store) VideoPath() string { return s.videoPath }

func (s *Store) Path() string { return s.path }

// Chapters returns the top-level chapters. Callers must not modify the slice.
func (s *Store) Chapters() []*Chapter {
	return s.chapters
}

// Casting returns a copy of the cast list.
func (s *Store) Casting() []string {
	return append([]string{}, s.casting...)
}

// Rows returns the flattened tree for presentation.
func (s *Store) Rows() []Row {
	return Flatten(s.chapters)
}

// Load replaces the in-memory state with the sidecar contents.
func (s *Store) Load() error {
	project, err := ReadProject(s.path)
	s.chapters = project.Chapters
	s.casting = project.Casting
	return err
}

// Save writes the current state to the sidecar.
func (s *Store) Save() error {
	return s.persist()
}

func (s *Store) persist() error {
	return WriteProject(s.path, Project{Chapters: s.chapters, Casting: s.casting})
}

// AddChapter inserts a top-level chapter starting at position. It ends at
// duration when that is known, ten seconds later otherwise. Top-level
// chapters stay sorted by start; equal starts keep insertion order.
func (s *Store) AddChapter(position, duration int) (*Chapter, error) {
	end := position + fallbackLength
	if duration > 0 {
		end = duration
	}
	c := &Chapter{
		Title: chapterTitle(len(s.chapters) + 1),
		Start: position,
		End:   end,
		Subs:  []*Chapter{},
	}
	s.chapters = append(s.chapters, c)
	slices.SortStableFunc(s.chapters, func(a, b *Chapter) int {
		return a.Start - b.Start
	})
	return c, s.persist()
}

// AddSubchapter appends a child to target, or to target's parent when
// target is itself nested. The child copies the bounds of the chapter it is
// attached to. A nil target is a no-op.
func (s *Store) AddSubchapter(target *Chapter) (*Chapter, error) {
	if target == nil {
		return nil, nil
	}
	owner := target
	if target.parent != nil {
		owner = target.parent
	}
	c := &Chapter{
		Title:  chapterTitle(len(owner.Subs) + 1),
		Start:  owner.Start,
		End:    owner.End,
		Subs:   []*Chapter{},
		parent: owner,
	}
	owner.Subs = append(owner.Subs, c)
	return c, s.persist()
}

// Remove deletes node from whichever list holds it. Confirmation is the
// caller's job. Unknown or nil nodes are ignored.
func (s *Store) Remove(node *Chapter) error {
	if node == nil {
		return nil
	}
	if node.parent != nil {
		owner := node.parent
		idx := slices.Index(owner.Subs, node)
		if idx < 0 {
			return nil
		}
		owner.Subs = slices.Delete(owner.Subs, idx, idx+1)
	} else {
		idx := slices.Index(s.chapters, node)
		if idx < 0 {
			return nil
		}
		s.chapters = slices.Delete(s.chapters, idx, idx+1)
	}
	node.parent = nil
	return s.persist()
}

// Rename sets the trimmed title unless text is blank, in which case the
// old title is kept.
func (s *Store) Rename(node *Chapter, text string) error {
	if node == nil {
		return nil
	}
	if title := strings.TrimSpace(text); title != "" {
		node.Title = title
	}
	return s.persist()
}

// Retime parses text with timecode.ParseFlexible and overwrites the given
// bound. Parse failures leave the node untouched and are returned as is.
// No ordering against the other bound or siblings is enforced.
func (s *Store) Retime(node *Chapter, field Field, text string) error {
	if node == nil {
		return nil
	}
	seconds, err := timecode.ParseFlexible(text)
	if err != nil {
		return err
	}
	switch field {
	case FieldEnd:
		node.End = seconds
	default:
		node.Start = seconds
	}
	return s.persist()
}

// AddCast appends a cast entry and returns its index. A blank name falls
// back to DefaultCastName.
func (s *Store) AddCast(name string) (int, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultCastName
	}
	s.casting = append(s.casting, name)
	return len(s.casting) - 1, s.persist()
}

// RemoveCast deletes the entry at idx. Out-of-range indexes are ignored.
func (s *Store) RemoveCast(idx int) error {
	if idx < 0 || idx >= len(s.casting) {
		return nil
	}
	s.casting = slices.Delete(s.casting, idx, idx+1)
	return s.persist()
}

// RenameCast replaces the entry at idx with the trimmed text unless it is
// blank.
func (s *Store) RenameCast(idx int, text string) error {
	if idx < 0 || idx >= len(s.casting) {
		return nil
	}
	if name := strings.TrimSpace(text); name != "" {
		s.casting[idx] = name
	}
	return s.persist()
}

// Project returns the current state as a sidecar payload.
func (s *Store) Project() Project {
	return Project{Chapters: s.chapters, Casting: append([]string{}, s.casting...)}
}

func chapterTitle(ordinal int) string {
	return fmt.Sprintf("Chapter %d", ordinal)
}
