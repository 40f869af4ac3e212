package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/opcua-hub/hubexplorer/internal/appstate"
	"github.com/opcua-hub/hubexplorer/internal/config"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// View renders the entire UI
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	if m.state.ModalOpen && m.pending.IsVisible() {
		// Rebuilt on every render; Update returns new models so a stored
		// overlay would hold stale pointers.
		dialog := overlay.New(
			dialogViewModel{dialog: &m.pending},
			NewMainViewModel(&m),
			overlay.Center,
			overlay.Center,
			0,
			0,
		)
		return dialog.View()
	}

	return m.renderMain()
}

// renderHeader renders the title, hub address and Telegraf status
func (m Model) renderHeader() string {
	title := lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render("OPC UA Hub Explorer"),
		"  ",
		pathStyle.Render(fmt.Sprintf("Hub: %s", m.apiURL)),
	)

	var status string
	switch text := m.state.TelegrafStatusText(); {
	case text == "":
		status = detailLabelStyle.Render("Telegraf config status unknown")
	case m.state.TelegrafUpToDate:
		status = telegrafOKStyle.Render(text)
	default:
		status = telegrafStaleStyle.Render(text) + detailLabelStyle.Render("  (u: review and apply)")
	}
	switch {
	case m.state.Loading:
		status += "  " + m.spinner.View() + " Loading nodes..."
	case m.state.TelegrafUpdating():
		status += "  " + m.spinner.View() + " Updating Telegraf config..."
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, status)
}

// renderContent renders the tree pane and, when enabled, the detail pane
func (m Model) renderContent() string {
	boxWidth := max(m.width-2, 10)

	total, visible := nodetree.Count(m.state.Nodes)
	treeTitle := fmt.Sprintf("Nodes (%d)", total)
	if !nodetree.IsBlankTerm(m.state.Term) {
		treeTitle = fmt.Sprintf("Nodes (%d of %d, %d matching)", visible, total, m.searchMatches())
	}

	treeBox := activePaneStyle.
		Width(boxWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, sectionTitleStyle.Render(treeTitle), m.tree.View()))

	parts := []string{}
	if m.state.FetchError != "" {
		parts = append(parts, errorStyle.Render(m.state.FetchError+" Press r to retry."))
	}
	parts = append(parts, treeBox)
	if m.detailMode == config.DetailPane {
		parts = append(parts, m.renderDetail(boxWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderDetail renders metadata of the selected node
func (m Model) renderDetail(width int) string {
	inner := max(width-4, 10)

	row, ok := m.tree.Selected()
	if !ok {
		return paneStyle.Width(width).Render(detailLabelStyle.Render("No node selected") + "\n")
	}
	n := row.Node

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return detailLabelStyle.Render(label+": ") + detailValueStyle.Render(value)
	}

	history := "n/a"
	if n.IsVariable() {
		history = "disabled"
		if n.HistoryEnabled {
			history = "enabled"
		}
		if m.state.TogglePending(n.ID) {
			history += " (updating)"
		}
	}

	writable := "no"
	if n.Writable {
		writable = "yes"
	}

	class := n.NodeClassRaw
	if class == "" {
		class = n.Class.String()
	}

	line1 := strings.Join([]string{
		field("Path", n.Path),
		field("ID", n.ID),
	}, "   ")
	line2 := strings.Join([]string{
		field("Class", class),
		field("Type", n.DataType),
		field("Parent", n.ParentID),
		field("Writable", writable),
		field("History", history),
		field("Updated", n.LastUpdated),
	}, "   ")

	return paneStyle.Width(width).Render(truncate(line1, inner) + "\n" + truncate(line2, inner))
}

// renderStatus renders the status bar: input prompt, message or key help
func (m Model) renderStatus() string {
	if m.inputMode == SearchMode {
		prompt := searchPromptStyle.Render("Search: ") + m.inputBuffer + "█"
		if !nodetree.IsBlankTerm(m.state.Term) {
			prompt += "  " + statusCountStyle.Render(fmt.Sprintf("%d match(es)", m.searchMatches()))
		}
		return statusStyle.Width(m.width).Render(prompt)
	}

	if msg := m.state.Message; msg.Text != "" {
		return statusStyle.Width(m.width).Render(renderMessage(msg))
	}

	var help []string
	add := func(bindings ...key.Binding) {
		for _, b := range bindings {
			h := b.Help()
			help = append(help, helpStyle.Render(h.Key+": "+h.Desc))
		}
	}
	add(m.keys.Up, m.keys.Right)
	if row, ok := m.tree.Selected(); ok && row.Node.IsVariable() {
		add(m.keys.ToggleHistory)
	}
	add(m.keys.Search)
	if m.state.Term != "" {
		add(m.keys.Esc)
	}
	add(m.keys.Pending, m.keys.Refresh, m.keys.Help, m.keys.Quit)

	return statusStyle.Width(m.width).Render(truncate(strings.Join(help, " │ "), max(m.width-2, 1)))
}

func renderMessage(msg appstate.Message) string {
	if msg.IsError {
		return errorStyle.Render(msg.Text)
	}
	return infoStyle.Render(msg.Text)
}

// renderHelpOverlay renders the full-screen key reference
func (m Model) renderHelpOverlay() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right,
			m.keys.PageUp, m.keys.PageDown, m.keys.Home, m.keys.End, m.keys.GoToParent,
		}},
		{"Tree", []key.Binding{
			m.keys.Enter, m.keys.ExpandAll, m.keys.CollapseAll, m.keys.ExpandMatches,
		}},
		{"Search", []key.Binding{m.keys.Search, m.keys.Esc}},
		{"History & Telegraf", []key.Binding{
			m.keys.ToggleHistory, m.keys.Pending, m.keys.Refresh,
		}},
		{"Other", []key.Binding{
			m.keys.CopyID, m.keys.CopyPath, m.keys.Detail, m.keys.Help, m.keys.Quit,
		}},
	}

	const keyWidth = 10

	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionTitleStyle.Render(s.title))
		b.WriteString("\n")
		for _, binding := range s.bindings {
			h := binding.Help()
			b.WriteString(helpKeyStyle.Width(keyWidth).Render(h.Key))
			b.WriteString("  ")
			b.WriteString(helpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press any key to close this help"))

	box := modalStyle.Width(50).Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
