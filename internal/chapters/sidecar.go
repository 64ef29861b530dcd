package chapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/chapmark/internal/fsutil"
)

// PathFor returns the sidecar path for a video: its extension replaced by .json.
func PathFor(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".json"
}

// ReadProject loads a sidecar. Missing files yield an empty project. Both the
// legacy bare chapter array and the {chapters, casting} object are accepted.
func ReadProject(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emptyProject(), nil
		}
		return emptyProject(), &fsutil.AccessError{Op: "read", Path: path, Err: err}
	}
	project, err := decodeProject(data)
	if err != nil {
		return emptyProject(), &fsutil.AccessError{Op: "parse", Path: path, Err: err}
	}
	return project, nil
}

// WriteProject replaces the sidecar with the full project.
func WriteProject(path string, project Project) error {
	payload, err := encodeProject(project)
	if err != nil {
		return &fsutil.AccessError{Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return &fsutil.AccessError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func decodeProject(data []byte) (Project, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return emptyProject(), nil
	}
	var project Project
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &project.Chapters); err != nil {
			return emptyProject(), err
		}
	} else if err := json.Unmarshal(trimmed, &project); err != nil {
		return emptyProject(), err
	}
	project.Chapters = link(project.Chapters, nil)
	if project.Casting == nil {
		project.Casting = []string{}
	}
	return project, nil
}

func encodeProject(project Project) ([]byte, error) {
	if project.Chapters == nil {
		project.Chapters = []*Chapter{}
	}
	if project.Casting == nil {
		project.Casting = []string{}
	}
	fillSubs(project.Chapters)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(project); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func emptyProject() Project {
	return Project{Chapters: []*Chapter{}, Casting: []string{}}
}

func fillSubs(list []*Chapter) {
	for _, c := range list {
		if c.Subs == nil {
			c.Subs = []*Chapter{}
		}
		fillSubs(c.Subs)
	}
}
