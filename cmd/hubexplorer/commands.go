package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opcua-hub/hubexplorer/internal/appstate"
	"github.com/opcua-hub/hubexplorer/internal/logger"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

// Messages carrying hub API replies. Each one holds the token of the request
// that produced it so stale replies can be dropped.

type nodesFetchedMsg struct {
	tok  appstate.Token
	resp *hubapi.NodesResponse
	err  error
}

type historyUpdatedMsg struct {
	tok     appstate.Token
	id      string
	enabled bool
	resp    *hubapi.StatusResponse
	err     error
}

type pendingLoadedMsg struct {
	tok  appstate.Token
	list []hubapi.UpdateRequired
	err  error
}

type telegrafUpdatedMsg struct {
	tok  appstate.Token
	resp *hubapi.StatusResponse
	err  error
}

// clearStatusMsg clears the status message scheduled under seq.
type clearStatusMsg struct {
	seq int
}

func (m Model) fetchNodes(tok appstate.Token) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		resp, err := client.Nodes(ctx)
		if err != nil {
			logger.Warn("Fetching nodes failed", "error", err)
		}
		return nodesFetchedMsg{tok: tok, resp: resp, err: err}
	}
}

func (m Model) updateHistory(tok appstate.Token, upd hubapi.HistoryUpdate) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		resp, err := client.UpdateNodeHistory(ctx, upd)
		if err != nil {
			logger.Warn("History update failed", "nodeID", upd.NodeID, "error", err)
		}
		return historyUpdatedMsg{tok: tok, id: upd.NodeID, enabled: upd.HistoryEnabled, resp: resp, err: err}
	}
}

func (m Model) loadPending(tok appstate.Token) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		list, err := client.UpdatesRequired(ctx)
		if err != nil {
			logger.Warn("Fetching pending updates failed", "error", err)
		}
		return pendingLoadedMsg{tok: tok, list: list, err: err}
	}
}

func (m Model) updateTelegraf(tok appstate.Token) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		resp, err := client.UpdateTelegrafConfig(ctx)
		if err != nil {
			logger.Warn("Telegraf update failed", "error", err)
		}
		return telegrafUpdatedMsg{tok: tok, resp: resp, err: err}
	}
}

// startFetch begins a refetch of the whole forest.
func (m Model) startFetch() (Model, tea.Cmd) {
	state, tok := m.state.BeginFetch()
	m.state = state
	return m, tea.Batch(m.fetchNodes(tok), m.spinner.Tick)
}

// flash schedules the current status message to be cleared.
func (m *Model) flash() tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
