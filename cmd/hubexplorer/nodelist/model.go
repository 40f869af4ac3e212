// Package nodelist is the scrollable tree pane: a flat list of visible rows
// with a cursor that follows the selected node across refreshes.
package nodelist

import (
	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/nodelist/adapter"
	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/nodelist/display"
	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/virtuallist"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

const (
	EmptyText   = "No nodes."
	NoMatchText = "No nodes match the search."
)

// Model holds the rows currently on screen and the cursor over them.
type Model struct {
	rows     []nodetree.Row
	term     string
	pending  func(id string) bool
	renderer *virtuallist.Renderer
}

// New returns an empty list.
func New() *Model {
	m := &Model{pending: func(string) bool { return false }}
	m.renderer = virtuallist.New(m, EmptyText)
	return m
}

// SetRows replaces the rows. The cursor stays on the same node when that
// node is still listed; otherwise it keeps its index, clamped.
func (m *Model) SetRows(rows []nodetree.Row, term string, pending func(id string) bool) {
	selected, hadSelection := m.Selected()

	m.rows = rows
	m.term = term
	if pending != nil {
		m.pending = pending
	}
	if nodetree.IsBlankTerm(term) {
		m.renderer.SetEmptyText(EmptyText)
	} else {
		m.renderer.SetEmptyText(NoMatchText)
	}

	if hadSelection && m.SelectID(selected.Node.ID) {
		return
	}
	m.renderer.SetCursor(m.renderer.Cursor())
}

// Len implements virtuallist.List.
func (m *Model) Len() int {
	return len(m.rows)
}

// RenderRow implements virtuallist.List.
func (m *Model) RenderRow(index int, selected bool, width int) string {
	row := m.rows[index]
	props := adapter.RowToProps(row, adapter.RowState{
		Selected: selected,
		Pending:  m.pending(row.Node.ID),
		Term:     m.term,
	})
	return display.RenderRow(props, width)
}

// Rows returns the current rows.
func (m *Model) Rows() []nodetree.Row {
	return m.rows
}

// Cursor returns the cursor index.
func (m *Model) Cursor() int {
	return m.renderer.Cursor()
}

// Selected returns the row under the cursor.
func (m *Model) Selected() (nodetree.Row, bool) {
	c := m.renderer.Cursor()
	if c < 0 || c >= len(m.rows) {
		return nodetree.Row{}, false
	}
	return m.rows[c], true
}

// SelectID moves the cursor to the row for id.
func (m *Model) SelectID(id string) bool {
	for i, r := range m.rows {
		if r.Node.ID == id {
			m.renderer.SetCursor(i)
			return true
		}
	}
	return false
}

func (m *Model) MoveUp()   { m.renderer.Move(-1) }
func (m *Model) MoveDown() { m.renderer.Move(1) }
func (m *Model) PageUp()   { m.renderer.Move(-m.renderer.PageSize()) }
func (m *Model) PageDown() { m.renderer.Move(m.renderer.PageSize()) }
func (m *Model) Top()      { m.renderer.SetCursor(0) }
func (m *Model) Bottom()   { m.renderer.SetCursor(len(m.rows) - 1) }

// SelectParent moves the cursor to the parent of the selected row. It
// reports false at the top level.
func (m *Model) SelectParent() bool {
	c := m.renderer.Cursor()
	if c <= 0 || c >= len(m.rows) {
		return false
	}
	depth := m.rows[c].Depth
	for i := c - 1; i >= 0; i-- {
		if m.rows[i].Depth < depth {
			m.renderer.SetCursor(i)
			return true
		}
	}
	return false
}

// SetSize sets the pane's drawing area.
func (m *Model) SetSize(width, height int) {
	m.renderer.SetSize(width, height)
}

// View draws the visible rows.
func (m *Model) View() string {
	return m.renderer.View()
}
