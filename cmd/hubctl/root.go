package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/opcua-hub/hubexplorer/internal/config"
	"github.com/opcua-hub/hubexplorer/internal/logger"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	apiURL     string
	configPath string
	timeout    time.Duration

	// stdin is read by interactive confirmations.
	stdin io.Reader = os.Stdin
)

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "Inspect an OPC UA hub's node tree and manage history collection",
	Long: `hubctl talks to an OPC UA hub's HTTP API. It prints the node tree,
enables or disables history collection on variable nodes, and regenerates
the Telegraf configuration once changes are pending.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&apiURL, "api", "", "Hub API base URL (default from config, then "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/"+config.DirName+"/"+config.FileName+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default from config)")
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends debug logs to stderr when --verbose is set.
func setupLogging(cmd *cobra.Command, args []string) error {
	_, err := logger.Init(logger.Options{
		Enabled: verbose && !quiet,
		Level:   slog.LevelDebug,
		Writer:  os.Stderr,
	})
	return err
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.URL = apiURL
	}
	if timeout > 0 {
		cfg.API.Timeout = config.Duration(timeout)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds a hub API client from the effective configuration.
func newClient() (*hubapi.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	printVerbose("Using hub API at %s\n", cfg.API.URL)
	return hubapi.New(cfg.API.URL,
		hubapi.WithTimeout(cfg.API.Timeout.Duration()),
		hubapi.WithUserAgent(cfg.API.UserAgent),
		hubapi.WithLogger(logger.L),
	), nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
