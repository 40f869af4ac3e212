package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opcua-hub/hubexplorer/internal/appstate"
	"github.com/opcua-hub/hubexplorer/internal/hubtest"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

var spaceKey = tea.KeyMsg{Type: tea.KeySpace}

func startExplorer(t *testing.T) (*TestHelper, *hubtest.Hub) {
	t.Helper()
	hub := hubtest.New(t, hubtest.SampleForest())
	h := NewTestHelper(hub.URL).SendWindowSize(160, 40).Start()
	t.Cleanup(h.GetModel().Close)
	return h, hub
}

func visibleIDs(h *TestHelper) []string {
	rows := h.GetModel().tree.Rows()
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Node.ID
	}
	return ids
}

func TestStartup_LoadsTopLevelNodes(t *testing.T) {
	h, _ := startExplorer(t)

	m := h.GetModel()
	assert.False(t, m.state.Loading)
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.ServerID}, visibleIDs(h))

	view := h.GetView()
	assert.Contains(t, view, "Objects")
	assert.Contains(t, view, "Server")
	assert.Contains(t, view, appstate.TelegrafUpToDate)
}

func TestStartup_FetchFailureThenRetry(t *testing.T) {
	hub := hubtest.New(t, hubtest.SampleForest())
	hub.FailNodes(true)
	h := NewTestHelper(hub.URL).SendWindowSize(160, 40).Start()

	assert.Contains(t, h.GetView(), appstate.FetchFailedMessage)
	assert.Empty(t, visibleIDs(h))

	hub.FailNodes(false)
	h.PressRune('r')

	assert.Empty(t, h.GetModel().state.FetchError)
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.ServerID}, visibleIDs(h))
	assert.NotContains(t, h.GetView(), appstate.FetchFailedMessage)
}

func TestNavigation_ExpandCollapseAndParent(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKey(tea.KeyRight)
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.BoilerID, hubtest.PumpID, hubtest.ServerID}, visibleIDs(h))

	// Right on an expanded node steps into it.
	h.SendKey(tea.KeyRight)
	n, _ := h.SelectedNode()
	assert.Equal(t, hubtest.BoilerID, n.ID)

	// Left on a collapsed node goes to the parent, then collapses it.
	h.SendKey(tea.KeyLeft)
	n, _ = h.SelectedNode()
	assert.Equal(t, hubtest.ObjectsID, n.ID)

	h.SendKey(tea.KeyLeft)
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.ServerID}, visibleIDs(h))
}

func TestNavigation_ExpandAllAndCollapseAll(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('E')
	assert.Len(t, visibleIDs(h), 7)

	h.SendKey(tea.KeyDown).SendKeyRune('C')
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.ServerID}, visibleIDs(h))
	assert.Equal(t, 0, h.GetModel().tree.Cursor())
}

func TestSearch_FiltersLiveAndExpandsOnEnter(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('/').TypeString("speed")
	m := h.GetModel()
	assert.Equal(t, SearchMode, m.inputMode)
	assert.Equal(t, "speed", m.state.Term)
	assert.Equal(t, []string{hubtest.ObjectsID}, visibleIDs(h))
	assert.Contains(t, m.renderStatus(), "1 match(es)")

	h.SendKey(tea.KeyEnter)
	assert.Equal(t, NormalMode, h.GetModel().inputMode)
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.PumpID, hubtest.PumpSpeedID}, visibleIDs(h))
	assert.Equal(t, "1 match", h.StatusMessage())
}

func TestSearch_NoMatchesShowsPlaceholder(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('/').TypeString("valve")

	assert.Empty(t, visibleIDs(h))
	assert.Contains(t, h.GetView(), "No nodes match the search.")
}

func TestSearch_BackspaceWidensFilter(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('/').TypeString("valvx")
	require.Empty(t, visibleIDs(h))

	h.SendKey(tea.KeyBackspace).SendKey(tea.KeyBackspace).SendKey(tea.KeyBackspace).
		SendKey(tea.KeyBackspace).SendKey(tea.KeyBackspace)
	assert.Equal(t, "", h.GetModel().state.Term)
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.ServerID}, visibleIDs(h))
}

func TestSearch_EscClearsFilter(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('/').TypeString("temp").SendKey(tea.KeyEsc)

	m := h.GetModel()
	assert.Equal(t, NormalMode, m.inputMode)
	assert.Empty(t, m.state.Term)
	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.ServerID}, visibleIDs(h))
}

func TestSearch_EscInNormalModeClearsActiveTerm(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('/').TypeString("temp").SendKey(tea.KeyEnter)
	require.Equal(t, "temp", h.GetModel().state.Term)

	h.SendKey(tea.KeyEsc)
	assert.Empty(t, h.GetModel().state.Term)
	assert.Equal(t, "Search cleared", h.StatusMessage())
}

func TestSearch_SurvivesRefresh(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('/').TypeString("temp").SendKey(tea.KeyEnter)
	h.PressRune('r')

	assert.Equal(t, "temp", h.GetModel().state.Term)
	assert.NotContains(t, visibleIDs(h), hubtest.ServerID)
	assert.Contains(t, visibleIDs(h), hubtest.BoilerTempID)
}

func TestToggle_EnablesHistoryAndFlagsTelegraf(t *testing.T) {
	h, hub := startExplorer(t)
	h.SendKeyRune('E')
	require.True(t, h.SelectNode(hubtest.BoilerPressID))

	h.Press(spaceKey)

	updates := hub.HistoryUpdates()
	require.Len(t, updates, 1)
	assert.Equal(t, hubapi.HistoryUpdate{
		NodeID:         hubtest.BoilerPressID,
		HistoryEnabled: true,
		NodePath:       "Objects/Boiler/Pressure",
	}, updates[0])

	m := h.GetModel()
	n, ok := m.state.Find(hubtest.BoilerPressID)
	require.True(t, ok)
	assert.True(t, n.HistoryEnabled)
	assert.False(t, m.state.TogglePending(hubtest.BoilerPressID))
	assert.Equal(t, "History enabled for Objects/Boiler/Pressure", h.StatusMessage())
	assert.Contains(t, h.GetView(), appstate.TelegrafNeedsUpdate)
}

func TestToggle_DisablesEnabledNode(t *testing.T) {
	h, hub := startExplorer(t)
	h.SendKeyRune('E')
	require.True(t, h.SelectNode(hubtest.BoilerTempID))

	h.Press(spaceKey)

	n, _ := h.GetModel().state.Find(hubtest.BoilerTempID)
	assert.False(t, n.HistoryEnabled)
	hubNode, _ := hub.Node(hubtest.BoilerTempID)
	assert.False(t, hubNode.HistoryEnabled)
}

func TestToggle_RejectedLeavesTreeUnchanged(t *testing.T) {
	h, hub := startExplorer(t)
	hub.RejectHistory("Node is not historizing-capable")
	h.SendKeyRune('E')
	require.True(t, h.SelectNode(hubtest.PumpSpeedID))

	h.Press(spaceKey)

	m := h.GetModel()
	n, _ := m.state.Find(hubtest.PumpSpeedID)
	assert.False(t, n.HistoryEnabled)
	assert.True(t, m.state.Message.IsError)
	assert.Equal(t, "Node is not historizing-capable", h.StatusMessage())
	assert.Contains(t, h.GetView(), appstate.TelegrafUpToDate)
}

func TestToggle_PendingUntilReply(t *testing.T) {
	h, _ := startExplorer(t)
	h.SendKeyRune('E')
	require.True(t, h.SelectNode(hubtest.PumpSpeedID))

	h.Send(spaceKey)
	m := h.GetModel()
	assert.True(t, m.state.TogglePending(hubtest.PumpSpeedID))
	assert.Contains(t, m.tree.View(), "[~] Speed")

	// A second press while the first is outstanding sends nothing.
	_, cmd := m.Update(spaceKey)
	assert.Nil(t, cmd)
}

func TestToggle_IgnoredOnObjectNodes(t *testing.T) {
	h, hub := startExplorer(t)

	h.Send(spaceKey)

	assert.Empty(t, hub.HistoryUpdates())
	assert.Contains(t, h.StatusMessage(), "only recorded for variable nodes")
}

func TestStaleFetchReplyIgnored(t *testing.T) {
	h, _ := startExplorer(t)

	h.Send(nodesFetchedMsg{tok: 9999, resp: &hubapi.NodesResponse{Nodes: []nodetree.Node{}}})

	assert.Equal(t, []string{hubtest.ObjectsID, hubtest.ServerID}, visibleIDs(h))
}

func TestPendingDialog_ApplyUpdatesTelegraf(t *testing.T) {
	h, hub := startExplorer(t)
	h.SendKeyRune('E')
	require.True(t, h.SelectNode(hubtest.BoilerPressID))
	h.Press(spaceKey)

	h.PressRune('u')
	m := h.GetModel()
	require.True(t, m.state.ModalOpen)
	view := h.GetView()
	assert.Contains(t, view, "Updates Required")
	assert.Contains(t, view, hubtest.BoilerPressID)
	assert.Contains(t, view, "Added")

	h.Press(tea.KeyMsg{Type: tea.KeyEnter})

	m = h.GetModel()
	assert.Equal(t, 1, hub.TelegrafCalls())
	assert.False(t, m.state.ModalOpen)
	assert.False(t, m.pending.IsVisible())
	assert.True(t, m.state.TelegrafUpToDate)
	assert.Equal(t, appstate.TelegrafUpdatedText, h.StatusMessage())
	assert.Contains(t, h.GetView(), appstate.TelegrafUpToDate)
}

func TestPendingDialog_CancelAppliesNothing(t *testing.T) {
	h, hub := startExplorer(t)

	h.PressRune('u')
	require.True(t, h.GetModel().state.ModalOpen)
	assert.Contains(t, h.GetView(), appstate.NoPendingUpdatesText)

	h.Press(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, h.GetModel().state.ModalOpen)
	assert.Zero(t, hub.TelegrafCalls())
}

func TestPendingDialog_ApplyFailure(t *testing.T) {
	h, hub := startExplorer(t)
	hub.SetPending([]hubapi.UpdateRequired{{NodeID: hubtest.PumpSpeedID, DBActionRequired: "Added"}})
	hub.SetTelegrafUpToDate(false)
	h.PressRune('r')
	hub.FailTelegraf(true)

	h.PressRune('u').PressRune('o')

	m := h.GetModel()
	assert.False(t, m.state.ModalOpen)
	assert.True(t, m.state.Message.IsError)
	assert.Equal(t, "telegraf restart failed", h.StatusMessage())
	assert.False(t, m.state.TelegrafUpToDate)
}

func TestPendingDialog_BlocksTreeKeys(t *testing.T) {
	h, _ := startExplorer(t)

	h.PressRune('u')
	h.Send(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 0, h.GetModel().tree.Cursor())
}

func TestCopy_IDAndPath(t *testing.T) {
	h, _ := startExplorer(t)
	h.SendKeyRune('E')
	require.True(t, h.SelectNode(hubtest.PumpSpeedID))

	h.SendKeyRune('c').SendKeyRune('y')

	assert.Equal(t, []string{hubtest.PumpSpeedID, "Objects/Pump/Speed"}, h.Copied)
	assert.Equal(t, "✓ Copied: Objects/Pump/Speed", h.StatusMessage())
}

func TestCopy_ClipboardFailure(t *testing.T) {
	h, _ := startExplorer(t)
	h.SetClipboard(func(string) error { return errors.New("no display") })

	h.SendKeyRune('c')

	assert.True(t, h.GetModel().state.Message.IsError)
	assert.Equal(t, "Failed to copy ID", h.StatusMessage())
}

func TestDetailPane_ShowsSelectedNodeAndToggles(t *testing.T) {
	h, _ := startExplorer(t)
	h.SendKeyRune('E')
	require.True(t, h.SelectNode(hubtest.BoilerTempID))

	view := h.GetView()
	assert.Contains(t, view, "Path: Objects/Boiler/Temperature")
	assert.Contains(t, view, "History: enabled")
	assert.Contains(t, view, "Parent: "+hubtest.BoilerID)

	h.SendKeyRune('d')
	assert.NotContains(t, h.GetView(), "Path: Objects/Boiler/Temperature")
}

func TestStatusMessageClearsOnlyForLatest(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('c')
	first := h.GetModel().statusSeq
	h.SendKeyRune('y')

	h.Send(clearStatusMsg{seq: first})
	assert.NotEmpty(t, h.StatusMessage())

	h.Send(clearStatusMsg{seq: h.GetModel().statusSeq})
	assert.Empty(t, h.StatusMessage())
}

func TestHelpOverlay(t *testing.T) {
	h, _ := startExplorer(t)

	h.SendKeyRune('?')
	assert.Contains(t, h.GetView(), "Keyboard Shortcuts")
	assert.Contains(t, h.GetView(), "toggle history")

	h.SendKeyRune('x')
	assert.False(t, h.GetModel().showHelp)
}

func TestQuitCancelsRequests(t *testing.T) {
	h, _ := startExplorer(t)
	m := h.GetModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, m.ctx.Err())
}
