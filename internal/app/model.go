package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/chapmark/internal/config"
	"codeberg.org/snonux/chapmark/internal/fsutil"
	"codeberg.org/snonux/chapmark/internal/keys"
	"codeberg.org/snonux/chapmark/internal/library"
	"codeberg.org/snonux/chapmark/internal/transport"
)

type screen int

const (
	screenPicker screen = iota
	screenEditor
	screenSettings
)

const defaultWidth = 80

type model struct {
	screen screen
	opts   Options
	cfg    config.Config
	keys   keys.KeyMap
	picker keys.PickerKeyMap
	sink   *msgSink
	width  int

	table         table.Model
	videos        []library.Video
	filtered      []library.Video
	filters       filterState
	inputs        filterInputs
	showFilters   bool
	sortField     sortField
	sortAscending bool
	statusMessage string
	loading       bool
	err           error
	root          string
	progress      *library.Progress
	cachePath     string
	cache         *library.DurationCache
	probes        probeQueue

	editor   *editor
	settings *settings
}

func newModel(opts Options) (model, error) {
	cfg := opts.Config
	cfg.Normalize()
	km, err := keys.NewKeyMap(cfg)
	status := "Scanning for videos..."
	if err != nil {
		log.Printf("key map: %v", err)
		status = fmt.Sprintf("Key binding error, using defaults: %v", err)
	}
	inputs := buildFilterInputs()
	inputs.fields[inputName].Focus()

	m := model{
		screen:        screenPicker,
		opts:          opts,
		cfg:           cfg,
		keys:          km,
		picker:        keys.DefaultPickerKeyMap(),
		sink:          &msgSink{},
		width:         defaultWidth,
		table:         buildTable(),
		inputs:        inputs,
		sortField:     sortByName,
		sortAscending: true,
		statusMessage: status,
		loading:       true,
		root:          opts.Root,
		progress:      &library.Progress{},
		cachePath:     library.CachePath(opts.Root),
	}
	if opts.SingleFile {
		m.loading = false
		// Init starts the player for this editor.
		_ = m.openEditor(opts.Root)
	}
	return m, nil
}

func buildTable() table.Model {
	columns := []table.Column{
		{Title: headerStyle.Render("Name"), Width: 40},
		{Title: headerStyle.Render("Duration"), Width: 10},
		{Title: headerStyle.Render("Chapters"), Width: 9},
		{Title: headerStyle.Render("Age"), Width: 12},
		{Title: headerStyle.Render("Path"), Width: 36},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	tbl.SetStyles(table.DefaultStyles())
	return tbl
}

func buildFilterInputs() filterInputs {
	newInput := func(prompt, placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Prompt = prompt
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	fields := make([]textinput.Model, 3)
	fields[inputName] = newInput("Name contains: ", "substring", 256)
	fields[inputMinLength] = newInput("Min length: ", "mm:ss or hh:mm:ss", 9)
	fields[inputMaxLength] = newInput("Max length: ", "mm:ss or hh:mm:ss", 9)
	return filterInputs{fields: fields}
}

func (m model) Init() tea.Cmd {
	if m.opts.SingleFile {
		if m.editor == nil {
			return nil
		}
		return startPlayerCmd(m.opts, m.editor.store.VideoPath(), m.editor.start)
	}
	return m.scanCmd()
}

func (m model) scanCmd() tea.Cmd {
	m.progress.Reset()
	return tea.Batch(loadVideosCmd(m.root, m.cachePath, m.progress), progressTickerCmd(m.progress))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(typed)
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case tea.BlurMsg:
		return m.handleBlur()
	case transport.TickMsg:
		return m.handleTick(typed)
	case progressUpdateMsg:
		return m.handleProgressUpdate(typed)
	case durationUpdateMsg:
		return m.handleDurationUpdate(typed)
	case playerReadyMsg:
		return m.handlePlayerReady(typed)
	case videosLoadedMsg:
		return m.handleVideosLoaded(typed)
	default:
		if m.screen == screenPicker {
			return m.updateTable(msg)
		}
		return m, nil
	}
}

func (m model) View() string {
	switch m.screen {
	case screenEditor:
		return m.renderEditor()
	case screenSettings:
		return m.renderSettings()
	}
	if m.loading {
		return statusStyle.Render("Loading videos, please wait...")
	}
	body := m.renderBody()
	if m.showFilters {
		return body + "\n\n" + m.renderFilterModal()
	}
	return body
}

func (m model) renderBody() string {
	header := titleStyle.Render(fmt.Sprintf("%s  (%d/%d videos, sorted by %s)", fsutil.ShortenHome(m.root), len(m.filtered), len(m.videos), m.describeSort()))
	parts := []string{header, tableStyle.Render(m.table.View())}
	if m.filters.active() {
		parts = append(parts, statusStyle.Render("Filter: "+m.describeFilters()))
	}
	if line := m.renderProgressLine(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, statusStyle.Render(m.statusMessage), m.picker.Help())
	return strings.Join(parts, "\n")
}

func (m model) renderProgressLine() string {
	if !m.probes.active() {
		return ""
	}
	bar := renderProgressBar(m.probes.done, m.probes.total, 24)
	return statusStyle.Render(fmt.Sprintf("Probing %s %d/%d", bar, m.probes.done, m.probes.total))
}

func (m model) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	tbl, cmd := m.table.Update(msg)
	m.table = tbl
	return m, cmd
}

func (m model) handleProgressUpdate(msg progressUpdateMsg) (tea.Model, tea.Cmd) {
	if !m.loading {
		return m, nil
	}
	if msg.total == 0 && msg.done {
		m.statusMessage = "No videos found"
		return m, nil
	}
	if msg.done {
		m.statusMessage = fmt.Sprintf("Loaded %d videos", msg.total)
		return m, nil
	}
	m.statusMessage = fmt.Sprintf("Loading videos %d/%d...", msg.processed, msg.total)
	return m, progressTickerCmd(m.progress)
}

func (m model) handleVideosLoaded(msg videosLoadedMsg) (tea.Model, tea.Cmd) {
	selected := m.currentSelectionPath()
	m.loading = false
	m.err = msg.err
	m.videos = msg.videos
	m.cache = msg.cache
	m.probes = newProbeQueue(msg.pending)
	m.applyFiltersAndSort()
	m.restoreSelection(selected)
	m.updateStatusAfterLoad(msg)
	if msg.sidecarErr != nil {
		log.Printf("sidecar summaries: %v", msg.sidecarErr)
	}
	cmd := m.startDurationWorkers()
	return m, cmd
}

func (m *model) updateStatusAfterLoad(msg videosLoadedMsg) {
	switch {
	case msg.err != nil:
		m.statusMessage = fmt.Sprintf("error: %v", msg.err)
	case len(m.filtered) == 0:
		m.statusMessage = "No videos found"
	case msg.cacheErr != nil:
		m.statusMessage = fmt.Sprintf("Loaded %d videos (cache warning: %v)", len(m.filtered), msg.cacheErr)
	case msg.sidecarErr != nil:
		m.statusMessage = fmt.Sprintf("Loaded %d videos (sidecar warning: %v)", len(m.filtered), msg.sidecarErr)
	default:
		m.statusMessage = fmt.Sprintf("Loaded %d videos", len(m.filtered))
	}
	if len(msg.pending) > 0 && msg.err == nil {
		m.statusMessage += ", probing durations..."
	}
}

func (m *model) saveConfig() error {
	if m.opts.ConfigPath == "" {
		return nil
	}
	return config.Save(m.opts.ConfigPath, m.cfg)
}
