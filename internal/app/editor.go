package app

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/chapters"
	"codeberg.org/snonux/chapmark/internal/player"
	"codeberg.org/snonux/chapmark/internal/timecode"
	"codeberg.org/snonux/chapmark/internal/transport"
)

type pane int

const (
	paneChapters pane = iota
	paneCast
)

type column int

const (
	columnTitle column = iota
	columnStart
	columnEnd
	columnCount
)

var columnNames = [columnCount]string{"Title", "Start", "End"}

const (
	scrubStep      = 10
	scrubStepLarge = 50
)

// editor is the chapter editing session for one open video. It owns the
// store, the player bridge and the refresh loop until it is closed.
type editor struct {
	name         string
	store        *chapters.Store
	sched        *transport.Scheduler
	start        *playerStart
	ctrl         *transport.Controller
	chapterTable table.Model
	castTable    table.Model
	rows         []chapters.Row
	lastCursor   int
	pane         pane
	column       column
	session      *editSession
	confirm      *confirmation
	scrubbing    bool
	mouseDrag    bool
	playing      bool
	status       string
}

const statusStarting = "Starting player..."

// openEditor shows the chapters of path right away. The player is started
// by the returned command and attached in handlePlayerReady; until then
// the transport is unavailable.
func (m *model) openEditor(path string) tea.Cmd {
	m.closeEditor()
	status := statusStarting
	store, err := chapters.Open(path)
	if err != nil {
		log.Printf("open sidecar: %v", err)
		status = fmt.Sprintf("Sidecar warning, starting empty: %v", err)
	}
	sink := m.sink
	sched := newScheduler(m.cfg.UpdateInterval())
	sched.SetSink(func(msg transport.TickMsg) { sink.Send(msg) })
	e := &editor{
		name:         filepath.Base(path),
		store:        store,
		sched:        sched,
		start:        &playerStart{},
		chapterTable: buildChapterTable(),
		castTable:    buildCastTable(),
		status:       status,
	}
	e.setColumns()
	e.refreshRows(nil)
	e.refreshCast(0)
	m.editor = e
	m.screen = screenEditor
	m.cfg.LastVideo = path
	return startPlayerCmd(m.opts, path, e.start)
}

// closeEditor tears the editor down: playback stops, the player and its
// engine are released, the refresh loop is descheduled and the store is
// dropped.
func (m *model) closeEditor() {
	if m.editor == nil {
		return
	}
	e := m.editor
	m.editor = nil
	if e.session != nil {
		e.session.cancel()
		e.session = nil
	}
	if e.ctrl != nil {
		if err := e.ctrl.Close(); err != nil {
			log.Printf("teardown %s: %v", e.name, err)
		}
	} else {
		e.sched.Disarm()
		teardownBridge(e.name, e.start.cancel())
	}
	m.setVideoChapters(e.store.VideoPath(), len(e.store.Rows()), len(e.store.Casting()))
}

func (m *model) setVideoChapters(path string, chapterCount, castCount int) {
	for i := range m.videos {
		if m.videos[i].Path == path {
			m.videos[i].Chapters = chapterCount
			m.videos[i].Cast = castCount
		}
	}
	m.applyFiltersAndSort()
	m.restoreSelection(path)
}

func buildChapterTable() table.Model {
	tbl := table.New(table.WithFocused(true), table.WithHeight(12))
	tbl.SetStyles(table.DefaultStyles())
	return tbl
}

func buildCastTable() table.Model {
	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: headerStyle.Render("#"), Width: 4},
			{Title: headerStyle.Render("Name"), Width: 50},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	tbl.SetStyles(table.DefaultStyles())
	return tbl
}

// setColumns highlights the header of the focused column.
func (e *editor) setColumns() {
	widths := [columnCount]int{44, 10, 10}
	columns := make([]table.Column, 0, columnCount)
	for i := column(0); i < columnCount; i++ {
		style := headerStyle
		if i == e.column {
			style = highlightStyle
		}
		columns = append(columns, table.Column{Title: style.Render(columnNames[i]), Width: widths[i]})
	}
	e.chapterTable.SetColumns(columns)
}

// refreshRows rebuilds the tree rows and selects the given node, or keeps
// the cursor where it was.
func (e *editor) refreshRows(selected *chapters.Chapter) {
	e.rows = e.store.Rows()
	rows := make([]table.Row, 0, len(e.rows))
	cursor := e.chapterTable.Cursor()
	for i, r := range e.rows {
		rows = append(rows, chapterRow(r))
		if selected != nil && r.Chapter == selected {
			cursor = i
		}
	}
	e.chapterTable.SetRows(rows)
	e.chapterTable.SetCursor(max(cursor, 0))
	e.lastCursor = e.chapterTable.Cursor()
}

func chapterRow(r chapters.Row) table.Row {
	title := strings.Repeat("  ", r.Depth) + r.Chapter.Title
	return table.Row{title, timecode.Format(r.Chapter.Start), timecode.Format(r.Chapter.End)}
}

func (e *editor) refreshCast(cursor int) {
	casting := e.store.Casting()
	rows := make([]table.Row, 0, len(casting))
	for i, name := range casting {
		rows = append(rows, table.Row{strconv.Itoa(i + 1), name})
	}
	e.castTable.SetRows(rows)
	e.castTable.SetCursor(max(cursor, 0))
}

func (e *editor) selectedNode() *chapters.Chapter {
	idx := e.chapterTable.Cursor()
	if idx < 0 || idx >= len(e.rows) {
		return nil
	}
	return e.rows[idx].Chapter
}

func (e *editor) selectedCast() (int, string, bool) {
	casting := e.store.Casting()
	idx := e.castTable.Cursor()
	if idx < 0 || idx >= len(casting) {
		return 0, "", false
	}
	return idx, casting[idx], true
}

// report shows err in the status line, or ok when err is nil.
func (e *editor) report(err error, ok string) {
	if err != nil {
		log.Printf("%s: %v", e.name, err)
		e.status = errorStyle.Render(err.Error())
		return
	}
	if ok != "" {
		e.status = ok
	}
}

func (e *editor) refreshPlaying() {
	if !e.ready() {
		return
	}
	playing, err := e.ctrl.Bridge().IsPlaying()
	if err != nil {
		return
	}
	e.playing = playing
}

func (e *editor) togglePlay() {
	e.report(player.Toggle(e.ctrl.Bridge()), "")
	e.refreshPlaying()
}

func (e *editor) stop() {
	e.report(e.ctrl.Bridge().Stop(), "Stopped")
	e.refreshPlaying()
}

func (e *editor) jump(seconds int) {
	e.report(e.ctrl.Jump(seconds), "")
}

func (e *editor) addChapter() {
	pos, err := e.ctrl.PositionSeconds()
	if err != nil {
		e.report(err, "")
		return
	}
	dur, err := e.ctrl.DurationSeconds()
	if err != nil {
		log.Printf("%s: duration: %v", e.name, err)
	}
	c, err := e.store.AddChapter(pos, dur)
	e.refreshRows(c)
	e.report(err, fmt.Sprintf("Added %s at %s", c.Title, timecode.Format(c.Start)))
}

func (e *editor) addSubchapter() {
	c, err := e.store.AddSubchapter(e.selectedNode())
	if c == nil && err == nil {
		return
	}
	e.refreshRows(c)
	e.report(err, fmt.Sprintf("Added %s", c.Title))
}

func (e *editor) addCast() {
	idx, err := e.store.AddCast("")
	e.refreshCast(idx)
	e.report(err, "Added cast entry")
}

// askRemove asks before removing the selected chapter or cast entry.
func (e *editor) askRemove() {
	if e.pane == paneCast {
		idx, name, ok := e.selectedCast()
		if !ok {
			return
		}
		e.confirm = &confirmation{
			prompt: fmt.Sprintf("Remove %q from the cast?", name),
			onYes: func() error {
				err := e.store.RemoveCast(idx)
				e.refreshCast(idx - 1)
				return err
			},
		}
		return
	}
	node := e.selectedNode()
	if node == nil {
		return
	}
	e.confirm = &confirmation{
		prompt: fmt.Sprintf("Remove %q and its sub-chapters?", node.Title),
		onYes: func() error {
			parent := node.Parent()
			err := e.store.Remove(node)
			e.refreshRows(parent)
			return err
		},
	}
}

func (e *editor) nextColumn() {
	if e.pane != paneChapters {
		return
	}
	e.column = (e.column + 1) % columnCount
	e.setColumns()
}

func (e *editor) togglePane() {
	if e.pane == paneChapters {
		e.pane = paneCast
		e.status = "Cast list"
		return
	}
	e.pane = paneChapters
	e.status = "Chapters"
}

// startEdit opens an inline edit for the focused cell.
func (e *editor) startEdit() {
	if e.pane == paneCast {
		idx, name, ok := e.selectedCast()
		if ok {
			e.session = editCastName(idx, name)
		}
		return
	}
	node := e.selectedNode()
	if node == nil {
		return
	}
	switch e.column {
	case columnStart:
		e.session = editChapterTime(node, chapters.FieldStart)
	case columnEnd:
		e.session = editChapterTime(node, chapters.FieldEnd)
	default:
		e.session = editChapterTitle(node)
	}
}

func (e *editor) commitEdit() {
	s := e.session
	done, err := s.commit(e.store)
	if !done {
		e.report(err, "")
		return
	}
	e.session = nil
	if s.kind == editCast {
		e.refreshCast(s.castIdx)
	} else {
		e.refreshRows(s.node)
	}
	e.report(err, "Saved")
}

func (e *editor) cancelEdit() {
	if e.session == nil {
		return
	}
	e.session.cancel()
	e.session = nil
	e.status = "Edit cancelled"
}

// seekToSelection seeks to the start of the selected chapter when the
// cursor moved.
func (e *editor) seekToSelection() {
	cursor := e.chapterTable.Cursor()
	if cursor == e.lastCursor {
		return
	}
	e.lastCursor = cursor
	node := e.selectedNode()
	if node == nil || !e.ready() {
		return
	}
	e.report(e.ctrl.SeekToSeconds(node.Start), "")
}

func (e *editor) startScrub() {
	e.scrubbing = true
	e.ctrl.DragStart()
	e.status = "Scrubbing: ←/→ move, enter to release"
}

func (e *editor) scrubBy(delta int) {
	e.report(e.ctrl.DragMove(e.ctrl.Slider().Value()+delta), "")
}

func (e *editor) endScrub() {
	e.scrubbing = false
	e.mouseDrag = false
	e.status = ""
	e.report(e.ctrl.DragEnd(), "")
}
