package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
	"github.com/opcua-hub/hubexplorer/pkg/nodetree/printer"
)

var (
	nodesSearch  string
	nodesDepth   int
	nodesAll     bool
	nodesShowIDs bool
)

func init() {
	cmd := newNodesCmd()
	cmd.Flags().StringVarP(&nodesSearch, "search", "s", "", "Only show nodes whose path contains this text")
	cmd.Flags().IntVar(&nodesDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&nodesAll, "all", false, "Also print nodes hidden by --search")
	cmd.Flags().BoolVar(&nodesShowIDs, "ids", false, "Show node IDs")
	rootCmd.AddCommand(cmd)
}

func newNodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Display the node tree",
		Long: `The nodes command fetches the hub's node tree and prints it. Variable
nodes are prefixed with [H] when history collection is enabled and [ ] when
it is not.

Example:
  hubctl nodes
  hubctl nodes --search boiler --ids
  hubctl nodes --depth 2 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNodes(cmd.Context())
		},
	}
	return cmd
}

func runNodes(ctx context.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	resp, err := client.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch nodes: %w", err)
	}

	nodes := nodetree.ApplySearch(resp.Nodes, nodesSearch)
	total, visible := nodetree.Count(nodes)
	printVerbose("Fetched %d nodes, %d visible\n", total, visible)

	opts := printer.DefaultOptions()
	opts.MaxDepth = nodesDepth
	opts.ShowHidden = nodesAll
	opts.ShowIDs = nodesShowIDs
	if jsonOut {
		opts.Format = printer.FormatJSON
	}

	if err := printer.New(os.Stdout, opts).PrintForest(nodes); err != nil {
		return fmt.Errorf("failed to print nodes: %w", err)
	}

	if !jsonOut && !nodetree.IsBlankTerm(nodesSearch) {
		printInfo("\n%d node(s) match %q\n", nodetree.CountMatches(nodes, nodesSearch), nodesSearch)
	}
	return nil
}
