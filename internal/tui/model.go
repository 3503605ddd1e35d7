// Package tui is a terminal front end for the catalog viewer. Navigation
// goes through a navigator.Navigator over an in-memory history, so the List
// View and Detail View behave as they do in a browser.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/navigator"
	"github.com/xenking/pokedex/internal/view/detail"
	"github.com/xenking/pokedex/internal/view/list"
)

// listUpdateMsg carries a snapshot published by the List View subscription.
type listUpdateMsg struct {
	state list.State
	ok    bool
}

// listLoadedMsg is sent once the initial catalog activation returns.
type listLoadedMsg struct {
	state list.State
}

// detailLoadedMsg is sent when a detail load returns. id is the requested
// item, which a newer navigation may have superseded.
type detailLoadedMsg struct {
	id    int
	state detail.State
}

// Options configures a Model.
type Options struct {
	// CatalogURL is the listing URL loaded on start.
	CatalogURL string
	// StartPath is the initial history entry. Empty starts on the list.
	StartPath string
	Logger    *zap.Logger
}

// Model implements tea.Model.
type Model struct {
	ctx     context.Context
	keys    KeyMap
	nav     *navigator.Navigator
	lists   *list.View
	details *detail.View

	catalogURL string
	updates    <-chan list.State
	// unsubscribe ends the List View subscription; see Close.
	unsubscribe func()

	route       navigator.Route
	listState   list.State
	detailState detail.State

	// cursor indexes the visible page; tagCursor indexes Categories.
	cursor    int
	tagCursor int

	searching bool
	search    textinput.Model
	spinner   spinner.Model
	width     int
}

// NewModel creates a Model over the given views. ctx bounds every load the
// model starts; loads are not cancelled by navigation.
func NewModel(ctx context.Context, lists *list.View, details *detail.View, opts Options) Model {
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	nav := navigator.New(navigator.NewMemoryHistory(opts.StartPath))
	nav.Listen(func(r navigator.Route) {
		lg.Debug("Navigated", zap.Stringer("view", r.View), zap.String("path", r.Path))
	})

	updates, unsubscribe := lists.Subscribe()

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search"

	m := Model{
		ctx:         ctx,
		keys:        DefaultKeyMap,
		nav:         nav,
		lists:       lists,
		details:     details,
		catalogURL:  opts.CatalogURL,
		updates:     updates,
		unsubscribe: unsubscribe,
		route:       nav.Current(),
		listState:   lists.State(),
		search:      search,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if m.route.View == navigator.ViewDetail {
		m.detailState = detail.State{ID: m.route.ID, Loading: true}
	}
	return m
}

// Close ends the model's List View subscription. A Model must be closed once
// its program exits when the List View outlives it.
func (m Model) Close() {
	m.unsubscribe()
}

// Route returns the route currently shown.
func (m Model) Route() navigator.Route { return m.route }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.activateList(),
		listenForList(m.updates),
		m.activate(m.route),
	)
}

func (m Model) activateList() tea.Cmd {
	lists, ctx, u := m.lists, m.ctx, m.catalogURL
	return func() tea.Msg {
		_ = lists.Activate(ctx, u)
		return listLoadedMsg{state: lists.State()}
	}
}

// listenForList blocks until the List View publishes a snapshot.
func listenForList(ch <-chan list.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		return listUpdateMsg{state: s, ok: ok}
	}
}

// activate starts the work a freshly selected route needs.
func (m Model) activate(r navigator.Route) tea.Cmd {
	if r.View != navigator.ViewDetail {
		return nil
	}
	details, ctx := m.details, m.ctx
	return func() tea.Msg {
		details.Load(ctx, r.ID)
		return detailLoadedMsg{id: r.ID, state: details.State()}
	}
}

func (m Model) navigate(path string) (Model, tea.Cmd) {
	m.route = m.nav.Navigate(path)
	return m.entered()
}

func (m Model) back() (Model, tea.Cmd) {
	r, ok := m.nav.Back()
	if !ok {
		return m.navigate(navigator.RootPath)
	}
	m.route = r
	return m.entered()
}

func (m Model) entered() (Model, tea.Cmd) {
	if m.route.View == navigator.ViewDetail {
		m.detailState = detail.State{ID: m.route.ID, Loading: true}
	}
	return m, m.activate(m.route)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case listUpdateMsg:
		if !msg.ok {
			return m, nil
		}
		m.setListState(msg.state)
		return m, listenForList(m.updates)

	case listLoadedMsg:
		m.setListState(msg.state)
		return m, nil

	case detailLoadedMsg:
		if m.route.View != navigator.ViewDetail || msg.id != m.route.ID || msg.state.ID != msg.id {
			return m, nil
		}
		m.detailState = msg.state
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.route.View {
		case navigator.ViewList:
			return m.handleListKeys(msg)
		default:
			return m.handleDetailKeys(msg)
		}
	}
	return m, nil
}

func (m *Model) setListState(s list.State) {
	m.listState = s
	if n := len(s.Page.Items); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(s.Categories); m.tagCursor >= n {
		m.tagCursor = max(n-1, 0)
	}
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.lists.SetSearchQuery(v)
		m.setListState(m.lists.State())
	}
	return m, cmd
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.listState
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(s.Filter.Query)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(s.Page.Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Left):
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.tagCursor < len(s.Categories)-1 {
			m.tagCursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.tagCursor < len(s.Categories) {
			m.lists.ToggleCategory(s.Categories[m.tagCursor])
			m.cursor = 0
			m.setListState(m.lists.State())
		}
	case key.Matches(msg, m.keys.Clear):
		m.lists.ClearFilters()
		m.search.SetValue("")
		m.cursor = 0
		m.setListState(m.lists.State())
	case key.Matches(msg, m.keys.Next):
		if s.Page.HasNext {
			m.lists.GoToPage(s.Filter.Page + 1)
			m.cursor = 0
			m.setListState(m.lists.State())
		}
	case key.Matches(msg, m.keys.Prev):
		if s.Page.HasPrev {
			m.lists.GoToPage(s.Filter.Page - 1)
			m.cursor = 0
			m.setListState(m.lists.State())
		}

	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(s.Page.Items) {
			return m.navigate(navigator.ItemPath(s.Page.Items[m.cursor].ID))
		}
	case key.Matches(msg, m.keys.Back):
		return m.back()
	}
	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Home):
		return m.navigate(navigator.RootPath)
	case key.Matches(msg, m.keys.Back):
		return m.back()
	}
	return m, nil
}
