package ui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/state"
	"github.com/desertthunder/tracklist/internal/viewmodel"
)

// Pane identifies the region that receives key presses.
type Pane int

const (
	PlaylistPane Pane = iota
	TracksPane
	SearchPane
)

// Model is the TUI application state. Domain state lives in the [state.Store]; Model only holds widgets.
type Model struct {
	ctx         context.Context
	store       *state.Store
	lib         state.Library
	signedIn    bool
	logger      *log.Logger
	width       int
	height      int
	focus       Pane
	showProfile bool
	playlists   list.Model
	tracks      table.Model
	input       textinput.Model
	results     list.Model
	help        help.Model
	keys        keyMap
}

// ModelOpts configures a [Model].
type ModelOpts struct {
	Store    *state.Store
	Library  state.Library
	SignedIn bool // whether the session held a token at start
	Logger   *log.Logger
}

// NewModel creates a new TUI model over the given store and library.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	playlists := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlists.Title = "Playlists"
	playlists.SetFilteringEnabled(false)
	playlists.SetShowHelp(false)
	playlists.DisableQuitKeybindings()

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.Title = "Search results"
	results.SetFilteringEnabled(false)
	results.SetShowHelp(false)
	results.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "Search tracks"
	input.Prompt = "/ "
	input.CharLimit = 200

	tracks := table.New(table.WithColumns(trackColumns(80)), table.WithHeight(10))

	return &Model{
		ctx:       ctx,
		store:     opts.Store,
		lib:       opts.Library,
		signedIn:  opts.SignedIn,
		logger:    opts.Logger,
		focus:     PlaylistPane,
		playlists: playlists,
		tracks:    tracks,
		input:     input,
		results:   results,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init tells the store whether a token is present, which starts the profile and playlist fetches.
func (m *Model) Init() tea.Cmd {
	return m.dispatch(state.TokenChanged{Ready: m.signedIn})
}

// Focus returns the pane receiving key presses.
func (m *Model) Focus() Pane {
	return m.focus
}

// dispatch sends a to the store, refreshes widgets, and turns the resulting effects into commands.
// Cache resets and invalidations run inline so they cannot reorder with the fetches that follow them.
func (m *Model) dispatch(a state.Action) tea.Cmd {
	effects := m.store.Dispatch(a)
	m.sync(a)

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff.(type) {
		case state.ResetCache, state.InvalidateCache:
			state.Perform(m.ctx, m.lib, eff)
			continue
		}
		cmds = append(cmds, performCmd(m.ctx, m.lib, eff))
	}
	return tea.Batch(cmds...)
}

// sync copies store state into the widgets after an action.
func (m *Model) sync(a state.Action) {
	switch a.(type) {
	case state.TokenChanged, state.PlaylistsResolved:
		entry := m.store.Playlists()
		if entry.Ready() {
			m.playlists.SetItems(playlistItems(entry.Data.All()))
		} else {
			m.playlists.SetItems(nil)
		}
	}

	m.tracks.SetRows(trackRows(m.store.View().Tracks()))
	m.tracks.GotoTop()
	m.results.SetItems(trackItems(m.store.Search().Visible()))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case actionMsg:
		return m, m.dispatch(msg.action)

	case tea.KeyMsg:
		if m.focus == SearchPane {
			return m.handleSearchKeys(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	body := max(height-10, 5)
	left := max(width/3, 20)
	right := max(width-left-6, 30)

	m.playlists.SetSize(left, body)
	m.tracks.SetColumns(trackColumns(right))
	m.tracks.SetWidth(right)
	m.tracks.SetHeight(body - 2)
	m.results.SetSize(max(width-4, 20), max(body/2, 4))
	m.input.Width = max(width-8, 10)
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.tab):
		m.cyclePane()
		return m, nil
	case key.Matches(msg, m.keys.search):
		return m, m.focusSearch()
	case key.Matches(msg, m.keys.profile):
		m.showProfile = !m.showProfile
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.dispatch(state.RefreshRequested{})
	case key.Matches(msg, m.keys.sortTitle):
		return m, m.dispatch(state.SortRequested{Column: viewmodel.SortTitle})
	case key.Matches(msg, m.keys.sortArtist):
		return m, m.dispatch(state.SortRequested{Column: viewmodel.SortArtist})
	case key.Matches(msg, m.keys.sortDate):
		return m, m.dispatch(state.SortRequested{Column: viewmodel.SortReleaseDate})
	case key.Matches(msg, m.keys.enter) && m.focus == PlaylistPane:
		if item, ok := m.playlists.SelectedItem().(playlistItem); ok {
			m.setPane(TracksPane)
			return m, m.dispatch(state.PlaylistSelected{Key: item.playlist.Key()})
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case PlaylistPane:
		m.playlists, cmd = m.playlists.Update(msg)
	case TracksPane:
		m.tracks, cmd = m.tracks.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyTab:
		return m, m.blurSearch()
	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		return m, tea.Batch(cmd, m.dispatch(state.QueryChanged{Query: after}))
	}
	return m, cmd
}

func (m *Model) cyclePane() {
	if m.focus == PlaylistPane {
		m.setPane(TracksPane)
		return
	}
	m.setPane(PlaylistPane)
}

func (m *Model) setPane(p Pane) {
	m.focus = p
	if p == TracksPane {
		m.tracks.Focus()
	} else {
		m.tracks.Blur()
	}
}

func (m *Model) focusSearch() tea.Cmd {
	m.setPane(SearchPane)
	return tea.Batch(m.input.Focus(), m.dispatch(state.SearchFocused{}))
}

func (m *Model) blurSearch() tea.Cmd {
	m.input.Blur()
	m.setPane(PlaylistPane)
	return m.dispatch(state.SearchBlurred{})
}
