package main

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/nodelist"
	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/pendingview"
	"github.com/opcua-hub/hubexplorer/internal/appstate"
	"github.com/opcua-hub/hubexplorer/internal/config"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

// Layout constants
const (
	HeaderHeight      = 2 // title line and status line
	DetailPanelHeight = 4 // bordered detail pane: two content lines
	StatusBarHeight   = 1
	paneChrome        = 3 // tree pane borders and title line
)

// How long a transient status message stays on screen.
const statusTimeout = 3 * time.Second

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	SearchMode
)

// Model is the main application model
type Model struct {
	client *hubapi.Client
	apiURL string

	state   appstate.State
	tree    *nodelist.Model
	pending pendingview.Model
	spinner spinner.Model
	keys    KeyMap

	width  int
	height int

	// Input modes
	inputMode   InputMode
	inputBuffer string

	showHelp   bool
	detailMode string

	// initialFetch is the token of the fetch begun by NewModel.
	initialFetch appstate.Token

	// statusSeq identifies the message a clearStatusMsg was scheduled for.
	statusSeq int

	copyToClipboard func(string) error

	// ctx is cancelled on quit so in-flight requests are abandoned.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates a new TUI model talking to client.
func NewModel(client *hubapi.Client, detailMode string) Model {
	if detailMode == "" {
		detailMode = config.DetailPane
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusCountStyle

	// The first fetch is begun here because Init cannot return a model.
	state, tok := appstate.New().BeginFetch()

	return Model{
		client:          client,
		apiURL:          client.BaseURL(),
		state:           state,
		initialFetch:    tok,
		tree:            nodelist.New(),
		pending:         pendingview.New(),
		spinner:         s,
		keys:            DefaultKeyMap(),
		inputMode:       NormalMode,
		detailMode:      detailMode,
		copyToClipboard: clipboard.WriteAll,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Init sends the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchNodes(m.initialFetch), m.spinner.Tick)
}

// Close abandons any request still in flight.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// busy reports whether a request that blocks the UI is outstanding.
func (m Model) busy() bool {
	return m.state.Loading || m.state.TelegrafUpdating()
}

// syncTree pushes the current snapshot into the tree pane.
func (m Model) syncTree() {
	m.tree.SetRows(m.state.Rows(), m.state.Term, m.state.TogglePending)
}

// layout sizes the panes for the current terminal.
func (m *Model) layout() {
	h := m.height - HeaderHeight - StatusBarHeight - paneChrome
	if m.detailMode == config.DetailPane {
		h -= DetailPanelHeight
	}
	if m.state.FetchError != "" {
		h--
	}
	m.tree.SetSize(max(m.width-4, 10), max(h, 1))
	m.pending.SetSize(m.width, m.height)
}
