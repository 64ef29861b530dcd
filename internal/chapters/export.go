package chapters

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var ffmetaEscaper = strings.NewReplacer(
	`\`, `\\`,
	"=", `\=`,
	";", `\;`,
	"#", `\#`,
	"\n", "\\\n",
)

// ExportFFMetadata writes chapters in ffmpeg's FFMETADATA1 format, one
// [CHAPTER] section per node in depth-first order, times in milliseconds.
func ExportFFMetadata(w io.Writer, chapters []*Chapter) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, ";FFMETADATA1")
	for _, row := range Flatten(chapters) {
		c := row.Chapter
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "[CHAPTER]")
		fmt.Fprintln(bw, "TIMEBASE=1/1000")
		fmt.Fprintf(bw, "START=%d\n", int64(c.Start)*1000)
		fmt.Fprintf(bw, "END=%d\n", int64(c.End)*1000)
		fmt.Fprintf(bw, "title=%s\n", ffmetaEscaper.Replace(c.Title))
	}
	return bw.Flush()
}

// ExportYAML writes the project as YAML.
func ExportYAML(w io.Writer, project Project) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(project); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Export writes the project in the named format (ffmetadata or yaml).
func Export(w io.Writer, project Project, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "ffmetadata", "ffmeta":
		return ExportFFMetadata(w, project.Chapters)
	case "yaml", "yml":
		return ExportYAML(w, project)
	default:
		return fmt.Errorf("unknown export format %q (want ffmetadata or yaml)", format)
	}
}
