package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opcua-hub/hubexplorer/internal/appstate"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

var telegrafYes bool

func init() {
	cmd := &cobra.Command{
		Use:   "telegraf",
		Short: "Inspect and regenerate the Telegraf configuration",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the Telegraf config reflects the history flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTelegrafStatus(cmd.Context())
		},
	}

	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "List nodes whose history change is not yet applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTelegrafPending(cmd.Context())
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Regenerate the Telegraf config",
		Long: `The update command lists the pending changes and, after confirmation,
asks the hub to regenerate the Telegraf configuration.

Example:
  hubctl telegraf update
  hubctl telegraf update --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTelegrafUpdate(cmd.Context())
		},
	}
	updateCmd.Flags().BoolVarP(&telegrafYes, "yes", "y", false, "Apply without asking")

	cmd.AddCommand(statusCmd, pendingCmd, updateCmd)
	rootCmd.AddCommand(cmd)
}

// telegrafStatus is the JSON form of "telegraf status".
type telegrafStatus struct {
	UpToDate bool   `json:"upToDate"`
	Status   string `json:"status"`
}

func runTelegrafStatus(ctx context.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	resp, err := client.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch status: %w", err)
	}

	text := appstate.TelegrafStatusText(resp.TelegrafUpToDate)
	if jsonOut {
		return printJSON(telegrafStatus{UpToDate: resp.TelegrafUpToDate, Status: text})
	}
	printInfo("%s\n", text)
	return nil
}

func runTelegrafPending(ctx context.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	list, err := client.UpdatesRequired(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", appstate.PendingFailedMessage, err)
	}

	if jsonOut {
		if list == nil {
			list = []hubapi.UpdateRequired{}
		}
		return printJSON(list)
	}
	printPending(list)
	return nil
}

func printPending(list []hubapi.UpdateRequired) {
	if len(list) == 0 {
		printInfo("%s\n", appstate.NoPendingUpdatesText)
		return
	}
	if quiet {
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE ID\tACTION")
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\n", u.NodeID, u.DBActionRequired)
	}
	tw.Flush()
}

// ErrAborted is returned when the user declines a confirmation.
var ErrAborted = errors.New("aborted")

func runTelegrafUpdate(ctx context.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	list, err := client.UpdatesRequired(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", appstate.PendingFailedMessage, err)
	}

	if !jsonOut {
		printPending(list)
	}
	if !telegrafYes {
		ok, err := confirm(fmt.Sprintf("Regenerate the Telegraf config with %d change(s)?", len(list)))
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	status, err := client.UpdateTelegrafConfig(ctx)
	if err != nil {
		if errors.Is(err, hubapi.ErrTransport) {
			return fmt.Errorf("%s: %w", appstate.TelegrafFailedMessage, err)
		}
		return errors.New(hubapi.MessageOf(err, appstate.TelegrafFailedMessage))
	}

	if jsonOut {
		return printJSON(status)
	}
	printInfo("%s\n", appstate.TelegrafUpdatedText)
	return nil
}

// confirm asks a yes/no question on stdin. Anything but y/yes is no.
func confirm(question string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
