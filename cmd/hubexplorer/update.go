package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/pendingview"
	"github.com/opcua-hub/hubexplorer/internal/config"
	"github.com/opcua-hub/hubexplorer/internal/logger"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case nodesFetchedMsg:
		if msg.err != nil {
			m.state = m.state.FetchFailed(msg.tok, msg.err)
		} else {
			m.state = m.state.FetchSucceeded(msg.tok, msg.resp)
			logger.Debug("Nodes loaded", "count", len(m.state.Nodes))
		}
		m.layout()
		m.syncTree()
		return m, nil

	case historyUpdatedMsg:
		if msg.err != nil {
			m.state = m.state.ToggleFailed(msg.tok, msg.id, msg.err)
		} else {
			var text string
			if msg.resp != nil {
				text = msg.resp.Message
			}
			m.state = m.state.ToggleSucceeded(msg.tok, msg.id, msg.enabled, text)
		}
		m.syncTree()
		return m, m.flash()

	case pendingLoadedMsg:
		if msg.err != nil {
			m.state = m.state.UpdatesRequiredFailed(msg.tok, msg.err)
			return m, m.flash()
		}
		m.state = m.state.UpdatesRequiredLoaded(msg.tok, msg.list)
		if m.state.ModalOpen {
			m.pending.SetSize(m.width, m.height)
			m.pending.Show(m.state.UpdatesRequired)
		}
		return m, nil

	case telegrafUpdatedMsg:
		if msg.err != nil {
			m.state = m.state.TelegrafUpdateFailed(msg.tok, msg.err)
		} else {
			m.state = m.state.TelegrafUpdated(msg.tok)
		}
		if !m.state.ModalOpen {
			m.pending.Hide()
		}
		return m, m.flash()

	case pendingview.ConfirmMsg:
		state, tok := m.state.BeginTelegrafUpdate()
		m.state = state
		m.pending.SetBusy(true)
		return m, tea.Batch(m.updateTelegraf(tok), m.spinner.Tick)

	case pendingview.CancelMsg:
		m.state = m.state.CloseModal()
		m.pending.Hide()
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.state = m.state.ClearMessage()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancel()
		return m, tea.Quit
	}

	// Any key closes the help overlay.
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.state.ModalOpen {
		return m, m.pending.Update(msg)
	}

	if m.inputMode == SearchMode {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.inputMode = SearchMode
		m.inputBuffer = m.state.Term
		return m, nil

	case key.Matches(msg, m.keys.Esc):
		if m.state.Term == "" {
			return m, nil
		}
		m.state = m.state.SetTerm("").SetMessage("Search cleared", false)
		m.syncTree()
		return m, m.flash()

	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		m.tree.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.tree.PageDown()
	case key.Matches(msg, m.keys.Home):
		m.tree.Top()
	case key.Matches(msg, m.keys.End):
		m.tree.Bottom()
	case key.Matches(msg, m.keys.GoToParent):
		m.tree.SelectParent()

	case key.Matches(msg, m.keys.Enter):
		if row, ok := m.tree.Selected(); ok && row.HasChildren() {
			m.state = m.state.ToggleExpanded(row.Node.ID)
			m.syncTree()
		}

	case key.Matches(msg, m.keys.Right):
		row, ok := m.tree.Selected()
		switch {
		case !ok || !row.HasChildren():
		case row.Expanded:
			m.tree.MoveDown()
		default:
			m.state = m.state.Expand(row.Node.ID)
			m.syncTree()
		}

	case key.Matches(msg, m.keys.Left):
		row, ok := m.tree.Selected()
		if ok && row.Expanded {
			m.state = m.state.Collapse(row.Node.ID)
			m.syncTree()
		} else {
			m.tree.SelectParent()
		}

	case key.Matches(msg, m.keys.ExpandMatches):
		if nodetree.IsBlankTerm(m.state.Term) {
			m.state = m.state.SetMessage("No active search", false)
			return m, m.flash()
		}
		m.state = m.state.ExpandMatches()
		m.syncTree()

	case key.Matches(msg, m.keys.ExpandAll):
		m.state = m.state.ExpandAll()
		m.syncTree()

	case key.Matches(msg, m.keys.CollapseAll):
		m.state = m.state.CollapseAll()
		m.syncTree()
		m.tree.Top()

	case key.Matches(msg, m.keys.ToggleHistory):
		return m.toggleHistory()

	case key.Matches(msg, m.keys.Pending):
		state, tok := m.state.BeginUpdatesRequired()
		m.state = state
		return m, m.loadPending(tok)

	case key.Matches(msg, m.keys.Refresh):
		if m.state.Loading {
			return m, nil
		}
		return m.startFetch()

	case key.Matches(msg, m.keys.CopyID):
		return m.copySelected("ID", func(n nodetree.Node) string { return n.ID })

	case key.Matches(msg, m.keys.CopyPath):
		return m.copySelected("path", func(n nodetree.Node) string { return n.Path })

	case key.Matches(msg, m.keys.Detail):
		if m.detailMode == config.DetailPane {
			m.detailMode = config.DetailHidden
		} else {
			m.detailMode = config.DetailPane
		}
		m.layout()
	}

	return m, nil
}

// toggleHistory flips the history flag of the selected variable node. The
// tree only changes once the hub accepts the update.
func (m Model) toggleHistory() (tea.Model, tea.Cmd) {
	row, ok := m.tree.Selected()
	if !ok {
		return m, nil
	}
	n := row.Node
	if !n.IsVariable() {
		m.state = m.state.SetMessage("History is only recorded for variable nodes", false)
		return m, m.flash()
	}
	if m.state.TogglePending(n.ID) {
		return m, nil
	}

	upd := hubapi.HistoryUpdate{NodeID: n.ID, HistoryEnabled: !n.HistoryEnabled, NodePath: n.Path}
	state, tok := m.state.BeginToggle(n.ID)
	m.state = state
	m.syncTree()
	logger.Debug("Toggling history", "nodeID", n.ID, "enabled", upd.HistoryEnabled)
	return m, m.updateHistory(tok, upd)
}

func (m Model) copySelected(what string, field func(nodetree.Node) string) (tea.Model, tea.Cmd) {
	row, ok := m.tree.Selected()
	if !ok {
		return m, nil
	}
	text := field(row.Node)
	if err := m.copyToClipboard(text); err != nil {
		logger.Warn("Clipboard write failed", "error", err)
		m.state = m.state.SetMessage(fmt.Sprintf("Failed to copy %s", what), true)
	} else {
		m.state = m.state.SetMessage(fmt.Sprintf("✓ Copied: %s", text), false)
	}
	return m, m.flash()
}
