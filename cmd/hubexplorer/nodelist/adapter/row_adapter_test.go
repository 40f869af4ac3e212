package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

func variable(enabled bool) nodetree.Node {
	return nodetree.Node{
		ID: "ns=2;s=T", Path: "Objects/Boiler/Temp", DisplayName: "Temp",
		Class: nodetree.ClassVariable, DataType: "Double", HistoryEnabled: enabled,
	}
}

func TestRowToProps_Icons(t *testing.T) {
	parent := nodetree.Node{ID: "p", DisplayName: "Boiler", Children: []nodetree.Node{variable(false), variable(true)}}

	collapsed := RowToProps(nodetree.Row{Node: parent}, RowState{})
	assert.Equal(t, collapsedIcon, collapsed.Icon)
	assert.Equal(t, "(2)", collapsed.CountText)
	assert.Empty(t, collapsed.Check)

	expanded := RowToProps(nodetree.Row{Node: parent, Expanded: true}, RowState{})
	assert.Equal(t, expandedIcon, expanded.Icon)

	leaf := RowToProps(nodetree.Row{Node: variable(false), Depth: 2}, RowState{})
	assert.Equal(t, leafIcon, leaf.Icon)
	assert.Empty(t, leaf.CountText)
	assert.Equal(t, 2, leaf.Depth)
	assert.Equal(t, "Double", leaf.Trailing)
}

func TestRowToProps_HistoryCheckbox(t *testing.T) {
	assert.Equal(t, checkOn, RowToProps(nodetree.Row{Node: variable(true)}, RowState{}).Check)
	assert.Equal(t, checkOff, RowToProps(nodetree.Row{Node: variable(false)}, RowState{}).Check)
	assert.Equal(t, checkPending, RowToProps(nodetree.Row{Node: variable(true)}, RowState{Pending: true}).Check)
}

func TestRowToProps_NameFallsBackToID(t *testing.T) {
	props := RowToProps(nodetree.Row{Node: nodetree.Node{ID: "i=84"}}, RowState{})

	assert.Equal(t, "i=84", props.Name)
}

func TestRowToProps_HighlightsSelfMatchOnly(t *testing.T) {
	hit := RowToProps(nodetree.Row{Node: variable(false)}, RowState{Term: "temp"})
	assert.Equal(t, matchStyle, hit.NameStyle)

	miss := RowToProps(nodetree.Row{Node: variable(false)}, RowState{Term: "pump"})
	assert.Equal(t, normalStyle, miss.NameStyle)

	blank := RowToProps(nodetree.Row{Node: variable(false)}, RowState{Term: "  "})
	assert.Equal(t, normalStyle, blank.NameStyle)
}

func TestRowToProps_Selected(t *testing.T) {
	props := RowToProps(nodetree.Row{Node: variable(false)}, RowState{Selected: true})

	assert.True(t, props.IsSelected)
}
