// Package pendingview is the "updates required" dialog: the list of nodes
// whose history change has not reached the Telegraf configuration yet, with
// OK and Cancel buttons.
package pendingview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

const (
	Title       = "Updates Required"
	NoneText    = "No pending updates."
	ApplyingTxt = "Applying..."
)

// Button identifies a dialog button.
type Button int

const (
	ButtonOK Button = iota
	ButtonCancel
)

// ConfirmMsg is emitted when the user chooses OK.
type ConfirmMsg struct{}

// CancelMsg is emitted when the user dismisses the dialog.
type CancelMsg struct{}

// Keys are the dialog's bindings.
type Keys struct {
	Left    key.Binding
	Right   key.Binding
	Tab     key.Binding
	Enter   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Up      key.Binding
	Down    key.Binding
}

// DefaultKeys returns the dialog bindings.
func DefaultKeys() Keys {
	return Keys{
		Left:    key.NewBinding(key.WithKeys("left", "h")),
		Right:   key.NewBinding(key.WithKeys("right", "l")),
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab")),
		Enter:   key.NewBinding(key.WithKeys("enter", " ")),
		Confirm: key.NewBinding(key.WithKeys("o", "y")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "c", "n", "q")),
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
	}
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#383838"))

	focusedButtonStyle = buttonStyle.
				Background(lipgloss.Color("#7D56F4")).
				Bold(true)

	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4B4B"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Model is the dialog state.
type Model struct {
	items    []hubapi.UpdateRequired
	focus    Button
	busy     bool
	visible  bool
	keys     Keys
	viewport viewport.Model
	width    int
	height   int
}

// New returns a hidden dialog.
func New() Model {
	return Model{keys: DefaultKeys(), viewport: viewport.New(0, 0)}
}

// Show opens the dialog with items. Focus starts on OK.
func (m *Model) Show(items []hubapi.UpdateRequired) {
	m.items = items
	m.focus = ButtonOK
	m.busy = false
	m.visible = true
	m.resize()
	m.viewport.GotoTop()
}

// Hide closes the dialog.
func (m *Model) Hide() {
	m.visible = false
	m.busy = false
}

// IsVisible reports whether the dialog is open.
func (m *Model) IsVisible() bool {
	return m.visible
}

// SetBusy marks an apply request as in flight; input is ignored meanwhile.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// Focus returns the focused button.
func (m *Model) Focus() Button {
	return m.focus
}

// SetSize records the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.resize()
}

func (m *Model) resize() {
	w := max(min(m.width*7/10, 90)-6, 20)
	h := max(min(len(m.items), m.height/2), 1)
	m.viewport.Width = w
	m.viewport.Height = h
	m.viewport.SetContent(m.renderItems(w))
}

// Update handles keys while the dialog is open.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.busy {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		return emit(CancelMsg{})
	case key.Matches(keyMsg, m.keys.Confirm):
		return emit(ConfirmMsg{})
	case key.Matches(keyMsg, m.keys.Left):
		m.focus = ButtonOK
	case key.Matches(keyMsg, m.keys.Right):
		m.focus = ButtonCancel
	case key.Matches(keyMsg, m.keys.Tab):
		m.focus = 1 - m.focus
	case key.Matches(keyMsg, m.keys.Enter):
		if m.focus == ButtonOK {
			return emit(ConfirmMsg{})
		}
		return emit(CancelMsg{})
	case key.Matches(keyMsg, m.keys.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(keyMsg, m.keys.Down):
		m.viewport.ScrollDown(1)
	}
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m Model) renderItems(width int) string {
	if len(m.items) == 0 {
		return mutedStyle.Render(NoneText)
	}

	idWidth := 0
	for _, it := range m.items {
		idWidth = max(idWidth, lipgloss.Width(it.NodeID))
	}
	idWidth = min(idWidth, max(width-28, 10))

	lines := make([]string, len(m.items))
	for i, it := range m.items {
		id := xansi.Truncate(it.NodeID, idWidth, "…")
		action := it.DBActionRequired
		switch it.Action() {
		case hubapi.ActionAdded:
			action = addedStyle.Render(action)
		case hubapi.ActionRemoved:
			action = removedStyle.Render(action)
		default:
			action = mutedStyle.Render(action)
		}
		lines[i] = id + strings.Repeat(" ", idWidth-xansi.StringWidth(id)+2) + action
	}
	return strings.Join(lines, "\n")
}

// View renders the dialog box. The caller positions it.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	ok, cancel := buttonStyle, buttonStyle
	if m.focus == ButtonOK {
		ok = focusedButtonStyle
	} else {
		cancel = focusedButtonStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, ok.Render("OK"), "  ", cancel.Render("Cancel"))
	if m.busy {
		buttons = mutedStyle.Render(ApplyingTxt)
	}

	pending := 0
	for _, it := range m.items {
		if it.Action().Pending() {
			pending++
		}
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d node(s), %d change(s) to apply. OK regenerates the Telegraf config.", len(m.items), pending))

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(Title),
		"",
		m.viewport.View(),
		"",
		summary,
		"",
		buttons,
	)
	return boxStyle.Render(body)
}
