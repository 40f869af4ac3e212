package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/pendingview"
)

// MainViewModel wraps the main UI for use as overlay background
type MainViewModel struct {
	model *Model
}

func NewMainViewModel(m *Model) *MainViewModel {
	return &MainViewModel{model: m}
}

func (m *MainViewModel) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the parent Model handles all messages.
func (m *MainViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m *MainViewModel) View() string {
	return m.model.renderMain()
}

// dialogViewModel adapts the pending-updates dialog to tea.Model for the
// overlay foreground.
type dialogViewModel struct {
	dialog *pendingview.Model
}

func (d dialogViewModel) Init() tea.Cmd {
	return nil
}

func (d dialogViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return d, nil
}

func (d dialogViewModel) View() string {
	return d.dialog.View()
}

// renderMain renders header, content and status bar without overlays.
func (m *Model) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}
