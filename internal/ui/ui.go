package ui

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/villagedex/internal/formatter"
	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/search"
	"github.com/desertthunder/villagedex/internal/state"
	"github.com/desertthunder/villagedex/internal/tasks"
	"github.com/desertthunder/villagedex/internal/villagers"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ListView
	DetailView
	FilterView
	StatsView
)

// Options are the TUI's dependencies. Without a Loader the catalog is shown
// as is; without Collection or Theme memory-only state is used.
type Options struct {
	Loader     *tasks.Loader
	Catalog    *tasks.Catalog
	Collection *state.Collection
	Theme      *state.Theme
	Logger     *log.Logger
	Debounce   time.Duration
	// WatchPath reloads the roster when this file changes. Empty disables watching.
	WatchPath string
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	loader     *tasks.Loader
	catalog    *tasks.Catalog
	collection *state.Collection
	theme      *state.Theme
	logger     *log.Logger
	debounce   time.Duration

	watchPath string
	watcher   *tasks.DatasetWatcher
	changes   chan struct{}

	width     int
	height    int
	list      list.Model
	input     textinput.Model
	searching bool
	searchSeq int
	query     search.Query
	enhanced  string
	filterIdx int
	options   search.FilterOptions

	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	done         chan loadOutcome
	progress     tasks.ProgressUpdate
	reloading    bool

	viewport viewport.Model
	detailID int64
	status   string
	err      error
	help     help.Model
	keys     keyMap
	palette  *Palette
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = tasks.NewCatalog(nil)
	}
	if opts.Collection == nil {
		opts.Collection = state.NewCollection(ctx, nil, opts.Logger)
	}
	if opts.Theme == nil {
		opts.Theme = state.NewTheme(ctx, nil, opts.Logger)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = search.DefaultDebounce
	}

	palette := paletteFor(opts.Theme.Current())

	l := list.New(nil, palette.delegate(), 0, 0)
	l.Title = "Villagers"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Search by name, species or personality"

	m := &Model{
		ctx:        ctx,
		view:       ListView,
		loader:     opts.Loader,
		catalog:    opts.Catalog,
		collection: opts.Collection,
		theme:      opts.Theme,
		logger:     opts.Logger,
		debounce:   opts.Debounce,
		watchPath:  opts.WatchPath,
		list:       l,
		input:      input,
		query:      search.Query{Criteria: search.Criteria{Collection: models.CollectionAll}},
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:   viewport.New(0, 0),
		help:       help.New(),
		keys:       newKeyMap(),
		palette:    palette,
	}

	if m.loader != nil {
		m.view = LoadingView
	} else {
		m.options = search.Options(m.catalog.Records())
		m.refresh()
	}
	return m
}

// Init starts loading and, when configured, watching the dataset.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.loader != nil {
		cmds = append(cmds, m.startLoad(), m.spinner.Tick)
	}
	if m.watchPath != "" {
		cmds = append(cmds, m.startWatch())
	}
	return tea.Batch(cmds...)
}

// Close stops the dataset watcher. Call it after the program exits.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// Err is the error that ended the initial load, if any.
func (m *Model) Err() error { return m.err }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView && !m.reloading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		switch m.view {
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FilterView:
			return m.handleFilterKeys(msg)
		case StatsView:
			return m.handleStatsKeys(msg)
		}
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.done)

	case MsgLoaded:
		outcome := msg.data.(loadOutcome)
		m.progressChan, m.done = nil, nil
		wasReload := m.reloading
		m.reloading = false
		m.view = max(m.view, ListView)

		if outcome.err != nil {
			m.logger.Error("failed to load villagers", "error", outcome.err)
			if wasReload {
				m.status = m.palette.err.Render("Reload failed: " + outcome.err.Error())
			} else {
				m.err = outcome.err
			}
			return m, nil
		}

		m.options = search.Options(m.catalog.Records())
		m.refresh()
		if wasReload {
			m.status = m.palette.ok.Render("Dataset reloaded")
		} else {
			m.status = outcome.result.Message
		}
		return m, nil

	case MsgSearchTick:
		if seq := msg.data.(int); seq == m.searchSeq {
			m.query.Search = m.input.Value()
			m.refresh()
		}
		return m, nil

	case MsgDatasetChanged:
		if m.loader == nil || m.reloading {
			return m, m.waitForChange()
		}
		m.reloading = true
		m.status = m.palette.warn.Render("Dataset changed, reloading…")
		return m, tea.Batch(m.startLoad(), m.waitForChange(), m.spinner.Tick)
	}
	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.enter):
		if r, ok := m.selected(); ok {
			m.openDetail(r)
		}
		return m, nil
	case key.Matches(msg, m.keys.have):
		if r, ok := m.selected(); ok {
			m.toggle(r, models.StatusHave)
		}
		return m, nil
	case key.Matches(msg, m.keys.want):
		if r, ok := m.selected(); ok {
			m.toggle(r, models.StatusWant)
		}
		return m, nil
	case key.Matches(msg, m.keys.collection):
		m.query.Collection = m.query.Collection.Next()
		m.status = fmt.Sprintf("Showing: %s", m.query.Collection)
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.filter):
		m.view = FilterView
		return m, nil
	case key.Matches(msg, m.keys.stats):
		m.openStats()
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, m.keys.back):
		if !m.query.IsZero() {
			m.clearQuery()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys edits the search box. Each edit schedules a tick tagged
// with a sequence number; only the latest tick applies the term.
func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.searching = false
		m.input.Blur()
		m.searchSeq++
		m.query.Search = m.input.Value()
		m.refresh()
		return m, nil
	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.Reset()
		m.searchSeq++
		m.query.Search = ""
		m.refresh()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.searchSeq++
	seq := m.searchSeq
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg { return searchTickMsg(seq) }))
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r, found := villagers.FindByID(m.catalog.Records(), m.detailID)

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.have) && found:
		m.toggle(r, models.StatusHave)
		return m, nil
	case key.Matches(msg, m.keys.want) && found:
		m.toggle(r, models.StatusWant)
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
		if found {
			m.viewport.SetContent(m.renderDetail(r))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dims := m.filterDims()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.filter):
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.up):
		m.filterIdx = (m.filterIdx + len(dims) - 1) % len(dims)
	case key.Matches(msg, m.keys.down):
		m.filterIdx = (m.filterIdx + 1) % len(dims)
	case key.Matches(msg, m.keys.right):
		dims[m.filterIdx].cycle(1)
		m.applyFilters()
	case key.Matches(msg, m.keys.left):
		dims[m.filterIdx].cycle(-1)
		m.applyFilters()
	case key.Matches(msg, m.keys.reset):
		m.query.Criteria = search.Criteria{Search: m.query.Search, Collection: m.query.Collection}
		m.enhanced = ""
		m.refresh()
	}
	return m, nil
}

func (m *Model) handleStatsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.stats):
		m.view = ListView
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
		m.openStats()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		if m.searching {
			m.input, cmd = m.input.Update(msg)
		} else {
			m.list, cmd = m.list.Update(msg)
		}
	case DetailView, StatsView:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.list.SetSize(max(width-2, 0), max(height-7, 1))
	m.viewport.Width = max(width-2, 0)
	m.viewport.Height = max(height-6, 1)
	m.input.Width = max(width-6, 0)
}

// refresh rebuilds list items from the catalog, query and collection.
func (m *Model) refresh() {
	records := m.catalog.Records()
	hits := m.query.Run(records, m.collection)

	items := make([]list.Item, len(hits))
	for i, h := range hits {
		status := m.collection.Status(villagers.ID(h.Record))
		items[i] = villagerItem{record: h.Record, badge: m.palette.badge(status), score: h.Score}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Villagers (%d/%d)", len(hits), len(records))
}

func (m *Model) clearQuery() {
	m.input.Reset()
	m.searchSeq++
	m.enhanced = ""
	m.query = search.Query{Criteria: search.Criteria{Collection: models.CollectionAll}}
	m.status = "Filters cleared"
	m.refresh()
}

func (m *Model) selected() (models.Record, bool) {
	item, ok := m.list.SelectedItem().(villagerItem)
	if !ok {
		return models.Record{}, false
	}
	return item.record, true
}

func (m *Model) toggle(r models.Record, status models.CollectionStatus) {
	id, name := villagers.ID(r), villagers.Name(r)

	toggle := m.collection.ToggleHave
	if status == models.StatusWant {
		toggle = m.collection.ToggleWant
	}
	added, err := toggle(m.ctx, id, name)
	if err != nil {
		m.logger.Error("failed to update collection", "id", id, "error", err)
		m.status = m.palette.err.Render(err.Error())
		return
	}

	if added {
		m.status = m.palette.ok.Render(fmt.Sprintf("Added %s to %s", name, status))
	} else {
		m.status = fmt.Sprintf("Removed %s from %s", name, status)
	}
	m.refresh()
}

func (m *Model) toggleTheme() {
	theme, err := m.theme.Toggle(m.ctx)
	if err != nil {
		m.logger.Error("failed to save theme", "error", err)
		m.status = m.palette.err.Render(err.Error())
		return
	}
	m.palette = paletteFor(theme)
	m.list.SetDelegate(m.palette.delegate())
	m.status = fmt.Sprintf("Theme: %s", theme)
	m.refresh()
}

func (m *Model) openDetail(r models.Record) {
	m.detailID = villagers.ID(r)
	m.viewport.SetContent(m.renderDetail(r))
	m.viewport.GotoTop()
	m.view = DetailView
}

// renderDetail renders the villager card through glamour, falling back to
// the raw markdown when rendering fails.
func (m *Model) renderDetail(r models.Record) string {
	md := formatter.DetailCard(villagers.Summarize(r))

	style := "light"
	if m.theme.IsDark() {
		style = "dark"
	}
	wrap := m.viewport.Width
	if wrap <= 0 {
		wrap = 80
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(wrap))
	if err != nil {
		m.logger.Warn("failed to create markdown renderer", "error", err)
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		m.logger.Warn("failed to render villager card", "error", err)
		return md
	}
	return out
}

func (m *Model) openStats() {
	m.viewport.SetContent(m.renderStats())
	m.viewport.GotoTop()
	m.view = StatsView
}

// filterDim is one row of the filter panel. values[0] is always "" (any).
type filterDim struct {
	label  string
	values []string
	field  *string
}

func (d filterDim) cycle(step int) {
	i := slices.Index(d.values, *d.field)
	if i < 0 {
		i = 0
	}
	n := len(d.values)
	*d.field = d.values[((i+step)%n+n)%n]
}

func (m *Model) filterDims() []filterDim {
	anyOf := func(values []string) []string { return append([]string{""}, values...) }
	return []filterDim{
		{label: "Species", values: anyOf(m.options.Species), field: &m.query.Species},
		{label: "Personality", values: anyOf(m.options.Personality), field: &m.query.Personality},
		{label: "Gender", values: anyOf(m.options.Gender), field: &m.query.Gender},
		{label: "Hobby", values: anyOf(m.options.Hobby), field: &m.query.Hobby},
		{label: "Favorite color", values: anyOf(m.options.FavoriteColors), field: &m.query.FavoriteColor},
		{label: "Enhanced only", values: []string{"", "yes"}, field: &m.enhanced},
	}
}

func (m *Model) applyFilters() {
	m.query.EnhancedOnly = m.enhanced != ""
	m.refresh()
}

func (m *Model) startLoad() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan loadOutcome, 1)
	m.progressChan, m.done = progress, done

	loader, catalog, ctx := m.loader, m.catalog, m.ctx
	go func() {
		result, err := catalog.Reload(ctx, loader, progress)
		done <- loadOutcome{result: result, err: err}
		close(progress)
	}()

	return waitForProgress(progress, done)
}

func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan loadOutcome) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			outcome := <-done
			return loadedMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) startWatch() tea.Cmd {
	changes := make(chan struct{}, 1)
	m.changes = changes
	m.watcher = tasks.NewDatasetWatcher(m.watchPath, m.debounce, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, m.logger)

	if err := m.watcher.Start(m.ctx); err != nil {
		m.logger.Warn("dataset watching disabled", "error", err)
		m.status = m.palette.warn.Render("Watching disabled: " + err.Error())
		m.watcher = nil
		return nil
	}
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	changes, ctx := m.changes, m.ctx
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-changes:
			return datasetChangedMsg()
		case <-ctx.Done():
			return nil
		}
	}
}
