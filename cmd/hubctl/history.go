package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/opcua-hub/hubexplorer/internal/appstate"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// ErrNotVariable is returned when history is toggled on a non-variable node.
var ErrNotVariable = errors.New("history can only be toggled on variable nodes")

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Enable or disable history collection on a node",
		Long: `The history commands change whether the hub records history for a
variable node. The change takes effect once the Telegraf configuration is
regenerated with "hubctl telegraf update".

Example:
  hubctl history enable "ns=2;s=Boiler.Temperature"
  hubctl history disable "ns=2;s=Pump.Speed"`,
	}
	cmd.AddCommand(newHistoryCmd("enable", true), newHistoryCmd("disable", false))
	rootCmd.AddCommand(cmd)
}

func newHistoryCmd(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <nodeID>",
		Short: fmt.Sprintf("%s history collection on a variable node", cases.Title(language.English).String(use)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), args[0], enabled)
		},
	}
}

// runHistory looks the node up to learn its path, then posts the change.
func runHistory(ctx context.Context, nodeID string, enabled bool) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	resp, err := client.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch nodes: %w", err)
	}
	node, ok := nodetree.Find(resp.Nodes, nodeID)
	if !ok {
		return fmt.Errorf("node %s not found", nodeID)
	}
	if !node.IsVariable() {
		return fmt.Errorf("%s: %w", nodeID, ErrNotVariable)
	}
	if node.HistoryEnabled == enabled {
		printVerbose("History already %s for %s\n", stateWord(enabled), node.Path)
	}

	status, err := client.UpdateNodeHistory(ctx, hubapi.HistoryUpdate{
		NodeID:         node.ID,
		HistoryEnabled: enabled,
		NodePath:       node.Path,
	})
	if err != nil {
		if errors.Is(err, hubapi.ErrTransport) {
			return fmt.Errorf("%s: %w", appstate.ToggleFailedMessage, err)
		}
		return errors.New(hubapi.MessageOf(err, appstate.ToggleFailedMessage))
	}

	if jsonOut {
		return printJSON(status)
	}
	msg := status.Message
	if msg == "" {
		msg = fmt.Sprintf("History %s for %s", stateWord(enabled), node.Path)
	}
	printInfo("%s\n", msg)
	printInfo("%s\n", appstate.TelegrafStatusText(false))
	return nil
}

func stateWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
