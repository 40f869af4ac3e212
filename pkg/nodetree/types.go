// Package nodetree holds the in-memory model of an OPC UA address-space tree
// as served by the hub API, and the pure transforms applied to it: visibility
// tagging, search filtering, and targeted history-flag updates.
//
// Every transform is copy-on-write. A forest passed in is never modified, so a
// caller may keep rendering the previous snapshot while the next one is built.
package nodetree

import "encoding/json"

// NodeClass distinguishes variable nodes (which can record history) from
// everything else in the address space.
type NodeClass int

const (
	ClassOther NodeClass = iota
	ClassVariable
)

// VariableClassName is the hub API's NodeClass string for variable nodes.
const VariableClassName = "NodeClassVariable"

// String returns a short label for the class.
func (c NodeClass) String() string {
	if c == ClassVariable {
		return "variable"
	}
	return "other"
}

// ParseNodeClass maps a hub API class string to a NodeClass.
func ParseNodeClass(s string) NodeClass {
	if s == VariableClassName {
		return ClassVariable
	}
	return ClassOther
}

// Node is one entry in the address space. A node exclusively owns its
// children; the structure is a tree with no sharing and no cycles.
type Node struct {
	ID             string
	Path           string
	DisplayName    string
	Class          NodeClass
	DataType       string // empty when the node has no data type
	HistoryEnabled bool
	Children       []Node

	// Visible is derived locally from the search state and never sent to
	// the hub API.
	Visible bool

	// Read-only metadata carried through from the hub API record.
	ParentID     string
	NodeClassRaw string
	Writable     bool
	LastUpdated  string
}

// IsVariable reports whether the node is a variable node.
func (n Node) IsVariable() bool {
	return n.Class == ClassVariable
}

// HasChildren reports whether the node has at least one child.
func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}

// wireNode mirrors the hub API's JSON node record.
type wireNode struct {
	NodeID         string     `json:"NodeID"`
	ParentID       string     `json:"ParentID,omitempty"`
	BrowseName     string     `json:"BrowseName"`
	NodeClass      string     `json:"NodeClass"`
	DataType       string     `json:"DataType,omitempty"`
	Writable       bool       `json:"Writable,omitempty"`
	HistoryEnabled bool       `json:"HistoryEnabled"`
	LastUpdated    string     `json:"LastUpdated,omitempty"`
	NodePath       string     `json:"NodePath"`
	Children       []wireNode `json:"Children"`
}

// UnmarshalJSON decodes the hub API node record. A null Children list
// becomes an empty slice.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = fromWire(w)
	return nil
}

// MarshalJSON encodes the node in the hub API's record shape. Visible is
// not part of the record.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(n))
}

func fromWire(w wireNode) Node {
	children := make([]Node, len(w.Children))
	for i, c := range w.Children {
		children[i] = fromWire(c)
	}
	return Node{
		ID:             w.NodeID,
		Path:           w.NodePath,
		DisplayName:    w.BrowseName,
		Class:          ParseNodeClass(w.NodeClass),
		DataType:       w.DataType,
		HistoryEnabled: w.HistoryEnabled,
		Children:       children,
		ParentID:       w.ParentID,
		NodeClassRaw:   w.NodeClass,
		Writable:       w.Writable,
		LastUpdated:    w.LastUpdated,
	}
}

func toWire(n Node) wireNode {
	class := n.NodeClassRaw
	if class == "" && n.Class == ClassVariable {
		class = VariableClassName
	}
	children := make([]wireNode, len(n.Children))
	for i, c := range n.Children {
		children[i] = toWire(c)
	}
	return wireNode{
		NodeID:         n.ID,
		ParentID:       n.ParentID,
		BrowseName:     n.DisplayName,
		NodeClass:      class,
		DataType:       n.DataType,
		Writable:       n.Writable,
		HistoryEnabled: n.HistoryEnabled,
		LastUpdated:    n.LastUpdated,
		NodePath:       n.Path,
		Children:       children,
	}
}
