package printer

import (
	"fmt"
	"io"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

const (
	DefaultIndentSize = 2
	DefaultMaxDepth   = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs an indented human-readable tree.
	FormatText Format = "text"

	// FormatJSON outputs a nested JSON document.
	FormatJSON Format = "json"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowHidden prints nodes whose Visible flag is false.
	// Default: false
	ShowHidden bool

	// ShowDataTypes appends the data type of variable nodes.
	// Default: true
	ShowDataTypes bool

	// ShowIDs appends the node identifier.
	// Default: false
	ShowIDs bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		IndentSize:    DefaultIndentSize,
		MaxDepth:      DefaultMaxDepth,
		ShowHidden:    false,
		ShowDataTypes: true,
		ShowIDs:       false,
	}
}

// Printer handles formatted output of node forests.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	resp, _ := client.Nodes(ctx)
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintForest(nodetree.ApplySearch(resp.Nodes, "boiler"))
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// PrintForest prints every top-level node and its descendants.
func (p *Printer) PrintForest(nodes []nodetree.Node) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printForestJSON(nodes)
	default:
		return p.printForestText(nodes, 0)
	}
}

// include reports whether a node at depth should be printed at all.
func (p *Printer) include(n nodetree.Node, depth int) bool {
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		return false
	}
	return n.Visible || p.opts.ShowHidden
}
