package hubtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

func TestHub_HistoryUpdateFlowsToPendingAndTelegraf(t *testing.T) {
	hub := New(t, SampleForest())
	c := hubapi.New(hub.URL)
	ctx := context.Background()

	resp, err := c.UpdateNodeHistory(ctx, hubapi.HistoryUpdate{NodeID: PumpSpeedID, HistoryEnabled: true, NodePath: "Objects/Pump/Speed"})
	require.NoError(t, err)
	assert.Equal(t, "History enabled for Objects/Pump/Speed", resp.Message)

	nodes, err := c.Nodes(ctx)
	require.NoError(t, err)
	assert.False(t, nodes.TelegrafUpToDate)

	pending, err := c.UpdatesRequired(ctx)
	require.NoError(t, err)
	assert.Equal(t, []hubapi.UpdateRequired{{NodeID: PumpSpeedID, DBActionRequired: "Added"}}, pending)

	_, err = c.UpdateTelegrafConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.TelegrafCalls())

	pending, err = c.UpdatesRequired(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestHub_UnknownNode(t *testing.T) {
	hub := New(t, SampleForest())
	c := hubapi.New(hub.URL)

	_, err := c.UpdateNodeHistory(context.Background(), hubapi.HistoryUpdate{NodeID: "ns=9;s=Nope"})

	require.ErrorIs(t, err, hubapi.ErrUpdateRejected)
	assert.Equal(t, "node ns=9;s=Nope not found", hubapi.MessageOf(err, ""))
}

func TestHub_ToggleTwiceKeepsOnePendingEntry(t *testing.T) {
	hub := New(t, SampleForest())
	c := hubapi.New(hub.URL)
	ctx := context.Background()

	for _, enabled := range []bool{false, true} {
		_, err := c.UpdateNodeHistory(ctx, hubapi.HistoryUpdate{NodeID: BoilerTempID, HistoryEnabled: enabled})
		require.NoError(t, err)
	}

	pending, err := c.UpdatesRequired(ctx)
	require.NoError(t, err)
	assert.Equal(t, []hubapi.UpdateRequired{{NodeID: BoilerTempID, DBActionRequired: "Added"}}, pending)
	assert.Len(t, hub.HistoryUpdates(), 2)
}
