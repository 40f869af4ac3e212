package printer

import (
	"fmt"
	"strings"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

const (
	historyOnMarker  = "[H]"
	historyOffMarker = "[ ]"
)

// printForestText recursively prints nodes in text format.
func (p *Printer) printForestText(nodes []nodetree.Node, depth int) error {
	for _, n := range nodes {
		if !p.include(n, depth) {
			continue
		}
		if err := p.printNodeText(n, depth); err != nil {
			return err
		}
		if err := p.printForestText(n.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// printNodeText prints a single node line.
//
// Format: <indent><marker> <name> (<type>) <id>
func (p *Printer) printNodeText(n nodetree.Node, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	var b strings.Builder
	b.WriteString(indent)
	if n.IsVariable() {
		if n.HistoryEnabled {
			b.WriteString(historyOnMarker)
		} else {
			b.WriteString(historyOffMarker)
		}
		b.WriteByte(' ')
	}

	name := n.DisplayName
	if name == "" {
		name = n.Path
	}
	b.WriteString(name)

	if p.opts.ShowDataTypes && n.DataType != "" {
		fmt.Fprintf(&b, " (%s)", n.DataType)
	}
	if p.opts.ShowIDs {
		fmt.Fprintf(&b, "  %s", n.ID)
	}

	_, err := fmt.Fprintln(p.writer, b.String())
	return err
}
