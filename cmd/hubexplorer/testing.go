package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/pendingview"
	"github.com/opcua-hub/hubexplorer/internal/config"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// TestHelper provides utilities for testing TUI components
type TestHelper struct {
	model Model

	// Copied lists clipboard writes in order.
	Copied []string
}

// NewTestHelper creates a test helper with a model talking to the hub at
// apiURL. Clipboard writes are recorded instead of performed.
func NewTestHelper(apiURL string) *TestHelper {
	m := NewModel(hubapi.New(apiURL), config.DetailPane)
	h := &TestHelper{model: m}
	h.model.copyToClipboard = func(s string) error {
		h.Copied = append(h.Copied, s)
		return nil
	}
	return h
}

// SetClipboard replaces the clipboard writer.
func (h *TestHelper) SetClipboard(fn func(string) error) {
	h.model.copyToClipboard = fn
}

// Start runs Init, which performs the first fetch synchronously.
func (h *TestHelper) Start() *TestHelper {
	h.run(h.model.Init())
	return h
}

// SendKey simulates a key press but does not execute async commands
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	return h.Send(tea.KeyMsg{Type: keyType})
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	return h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// TypeString sends each rune of s as a key press
func (h *TestHelper) TypeString(s string) *TestHelper {
	for _, r := range s {
		if r == ' ' {
			h.SendKey(tea.KeySpace)
			continue
		}
		h.SendKeyRune(r)
	}
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	return h.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

// Send delivers msg and discards the returned command.
func (h *TestHelper) Send(msg tea.Msg) *TestHelper {
	h.model, _ = h.update(msg)
	return h
}

// Press delivers a key press and runs the hub request it starts, delivering
// the reply. Use it only for keys whose command is a hub request (space,
// u, r, and Enter/OK inside the updates dialog); status timers would block.
func (h *TestHelper) Press(msg tea.KeyMsg) *TestHelper {
	var cmd tea.Cmd
	h.model, cmd = h.update(msg)
	h.run(cmd)
	return h
}

// PressRune is Press for a character key.
func (h *TestHelper) PressRune(r rune) *TestHelper {
	return h.Press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (h *TestHelper) update(msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := h.model.Update(msg)
	return updated.(Model), cmd
}

// run executes cmd synchronously and feeds its messages back. Commands
// returned for hub replies are timers and are not run; spinner ticks are
// dropped.
func (h *TestHelper) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case pendingview.ConfirmMsg, pendingview.CancelMsg:
		var next tea.Cmd
		h.model, next = h.update(msg)
		h.run(next)
	default:
		h.model, _ = h.update(msg)
	}
}

// GetModel returns the current model
func (h *TestHelper) GetModel() Model {
	return h.model
}

// GetView returns the rendered view
func (h *TestHelper) GetView() string {
	return h.model.View()
}

// SelectNode moves the cursor to the node with id, reporting whether it is
// on screen.
func (h *TestHelper) SelectNode(id string) bool {
	return h.model.tree.SelectID(id)
}

// SelectedNode returns the node under the cursor.
func (h *TestHelper) SelectedNode() (nodetree.Node, bool) {
	row, ok := h.model.tree.Selected()
	return row.Node, ok
}

// StatusMessage returns the status bar message text.
func (h *TestHelper) StatusMessage() string {
	return h.model.state.Message.Text
}
