package printer

import (
	"encoding/json"
	"fmt"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

// jsonNode represents a node in JSON output.
type jsonNode struct {
	ID             string     `json:"id"`
	Path           string     `json:"path"`
	Name           string     `json:"name"`
	Class          string     `json:"class"`
	DataType       string     `json:"dataType,omitempty"`
	HistoryEnabled bool       `json:"historyEnabled"`
	Children       []jsonNode `json:"children,omitempty"`
}

// printForestJSON prints the forest as one indented JSON array.
func (p *Printer) printForestJSON(nodes []nodetree.Node) error {
	out := p.toJSON(nodes, 0)
	if out == nil {
		out = []jsonNode{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

func (p *Printer) toJSON(nodes []nodetree.Node, depth int) []jsonNode {
	var out []jsonNode
	for _, n := range nodes {
		if !p.include(n, depth) {
			continue
		}
		node := jsonNode{
			ID:             n.ID,
			Path:           n.Path,
			Name:           n.DisplayName,
			Class:          n.Class.String(),
			HistoryEnabled: n.HistoryEnabled,
			Children:       p.toJSON(n.Children, depth+1),
		}
		if p.opts.ShowDataTypes {
			node.DataType = n.DataType
		}
		out = append(out, node)
	}
	return out
}
