// Package adapter decides how a tree row looks: glyphs, history checkbox,
// search highlighting. The display package only draws the result.
package adapter

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/opcua-hub/hubexplorer/cmd/hubexplorer/nodelist/display"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

const (
	expandedIcon  = "▼"
	collapsedIcon = "▶"
	leafIcon      = "•"

	checkOn      = "[x]"
	checkOff     = "[ ]"
	checkPending = "[~]"
)

var (
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	matchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	pendStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF"))
)

// RowState is the view-only information about a row that is not part of
// the node itself.
type RowState struct {
	Selected bool
	Pending  bool   // a history update for this node is in flight
	Term     string // active search term, "" when not searching
}

// RowToProps converts a tree row to display props.
func RowToProps(row nodetree.Row, st RowState) display.RowProps {
	n := row.Node
	props := display.RowProps{
		Name:       n.DisplayName,
		Depth:      row.Depth,
		Trailing:   n.DataType,
		IsSelected: st.Selected,
		NameStyle:  normalStyle,
	}
	if props.Name == "" {
		props.Name = n.ID
	}

	switch {
	case !row.HasChildren():
		props.Icon = leafIcon
	case row.Expanded:
		props.Icon = expandedIcon
	default:
		props.Icon = collapsedIcon
	}
	if row.HasChildren() {
		props.CountText = fmt.Sprintf("(%d)", len(n.Children))
	}

	if n.IsVariable() {
		switch {
		case st.Pending:
			props.Check, props.CheckStyle = checkPending, pendStyle
		case n.HistoryEnabled:
			props.Check, props.CheckStyle = checkOn, onStyle
		default:
			props.Check, props.CheckStyle = checkOff, offStyle
		}
	}

	if !nodetree.IsBlankTerm(st.Term) && nodetree.MatchesTerm(n.Path, st.Term) {
		props.NameStyle = matchStyle
	}
	return props
}
