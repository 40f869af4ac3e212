package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opcua-hub/hubexplorer/internal/config"
	"github.com/opcua-hub/hubexplorer/internal/logger"
	"github.com/opcua-hub/hubexplorer/pkg/hubapi"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options are the parsed command line flags.
type options struct {
	debug      bool
	help       bool
	version    bool
	apiURL     string
	configPath string
}

// parseArgs handles the few flags hubexplorer takes. Both "--flag value" and
// "--flag=value" are accepted.
func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(arg, "=")

		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s needs a value", name)
			}
			i++
			return args[i], nil
		}

		var err error
		switch name {
		case "--debug", "-d":
			opts.debug = true
		case "--help", "-h":
			opts.help = true
		case "--version", "-v":
			opts.version = true
		case "--api", "-a":
			opts.apiURL, err = takeValue()
		case "--config", "-c":
			opts.configPath, err = takeValue()
		default:
			return opts, fmt.Errorf("unknown argument: %s", arg)
		}
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if opts.help {
		printHelp()
		os.Exit(0)
	}

	if opts.version {
		fmt.Printf("hubexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if opts.apiURL != "" {
		cfg.API.URL = opts.apiURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	level := slog.LevelDebug
	if !opts.debug {
		level, _ = config.ParseLevel(cfg.Log.Level)
	}
	logFile, err := logger.Init(logger.Options{
		Enabled: opts.debug,
		Level:   level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	} else {
		defer logFile.Close()
	}

	logger.Info("starting hubexplorer", "api", cfg.API.URL, "debug", opts.debug)

	client := hubapi.New(cfg.API.URL,
		hubapi.WithTimeout(cfg.API.Timeout.Duration()),
		hubapi.WithUserAgent(cfg.API.UserAgent),
		hubapi.WithLogger(logger.L),
	)

	m := NewModel(client, cfg.UI.DetailMode)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if model, ok := finalModel.(Model); ok {
		model.Close()
	}

	logger.Info("hubexplorer exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: hubexplorer [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'hubexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("hubexplorer - Interactive TUI for an OPC UA hub's node tree")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  hubexplorer [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Browses the OPC UA address space served by a hub API, toggles history")
	fmt.Println("  recording on variable nodes and applies the resulting Telegraf config.")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Navigate up/down")
	fmt.Println("    →/l, Enter  Expand node")
	fmt.Println("    ←/h         Collapse node / Go to parent")
	fmt.Println("    Space       Toggle history on a variable node")
	fmt.Println("    /           Search (live filter)")
	fmt.Println("    u           Review and apply pending Telegraf updates")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -a, --api URL      Hub API base URL (default " + config.DefaultAPIURL + ")")
	fmt.Println("  -c, --config PATH  Config file (default ~/" + config.DirName + "/" + config.FileName + ")")
	fmt.Println("  -d, --debug        Enable debug logging to ~/" + config.DirName + "/logs/")
	fmt.Println("  -h, --help         Show this help message")
	fmt.Println("  -v, --version      Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT:")
	fmt.Println("  HUB_API_URL, HUB_API_TIMEOUT, HUB_API_USER_AGENT, HUB_LOG_LEVEL, HUB_DETAIL_MODE")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'hubctl' command instead.")
}
