// Package chapters holds the chapter tree and cast list of one video and
// keeps them in sync with the video's sidecar file.
package chapters

// Chapter is a titled time range. Subs are owned by their parent; the parent
// back-reference is not persisted and is rebuilt on load.
type Chapter struct {
	Title  string     `json:"title" yaml:"title"`
	Start  int        `json:"start" yaml:"start"`
	End    int        `json:"end" yaml:"end"`
	Subs   []*Chapter `json:"subs" yaml:"subs,omitempty"`
	parent *Chapter
}

// Parent returns the chapter that owns c, or nil for a top-level chapter.
func (c *Chapter) Parent() *Chapter {
	return c.parent
}

// Depth is 0 for top-level chapters.
func (c *Chapter) Depth() int {
	depth := 0
	for p := c.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Field selects which bound of a chapter Retime changes.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

func (f Field) String() string {
	if f == FieldEnd {
		return "end"
	}
	return "start"
}

// Project is the sidecar payload.
type Project struct {
	Chapters []*Chapter `json:"chapters" yaml:"chapters"`
	Casting  []string   `json:"casting" yaml:"casting"`
}

// Row is one visible line of the flattened tree.
type Row struct {
	Chapter *Chapter
	Depth   int
}

// Flatten walks chapters depth first, parents before their subs.
func Flatten(chapters []*Chapter) []Row {
	var rows []Row
	var walk func(list []*Chapter, depth int)
	walk = func(list []*Chapter, depth int) {
		for _, c := range list {
			rows = append(rows, Row{Chapter: c, Depth: depth})
			walk(c.Subs, depth+1)
		}
	}
	walk(chapters, 0)
	return rows
}

func link(list []*Chapter, parent *Chapter) []*Chapter {
	if list == nil {
		list = []*Chapter{}
	}
	for _, c := range list {
		c.parent = parent
		c.Subs = link(c.Subs, c)
	}
	return list
}
