package nodetree

// Walk visits nodes in pre-order, passing each node and its depth (0 for the
// top level). Returning false from fn stops the walk.
func Walk(nodes []Node, fn func(n Node, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if !walk(n.Children, depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node in pre-order whose ID equals id.
func Find(nodes []Node, id string) (Node, bool) {
	var found Node
	ok := false
	Walk(nodes, func(n Node, _ int) bool {
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Count returns the total number of nodes and how many of them are visible.
func Count(nodes []Node) (total, visible int) {
	Walk(nodes, func(n Node, _ int) bool {
		total++
		if n.Visible {
			visible++
		}
		return true
	})
	return total, visible
}

// CountMatches counts nodes whose own path matches term. Ancestors that are
// only visible because of a matching descendant are not counted.
func CountMatches(nodes []Node, term string) int {
	if IsBlankTerm(term) {
		return 0
	}
	m := newMatcher(term)
	count := 0
	Walk(nodes, func(n Node, _ int) bool {
		if m.matches(n.Path) {
			count++
		}
		return true
	})
	return count
}

// Row is one line of a flattened tree.
type Row struct {
	Node     Node
	Depth    int
	Expanded bool
}

// HasChildren reports whether the row's node has children.
func (r Row) HasChildren() bool {
	return r.Node.HasChildren()
}

// Rows flattens the forest into display order. Invisible nodes are skipped
// along with their whole subtree, and children are listed only under
// expanded nodes.
func Rows(nodes []Node, exp Expansion) []Row {
	rows := make([]Row, 0, len(nodes))
	return appendRows(rows, nodes, 0, exp)
}

func appendRows(rows []Row, nodes []Node, depth int, exp Expansion) []Row {
	for _, n := range nodes {
		if !n.Visible {
			continue
		}
		expanded := exp.IsExpanded(n.ID)
		rows = append(rows, Row{Node: n, Depth: depth, Expanded: expanded})
		if expanded {
			rows = appendRows(rows, n.Children, depth+1, exp)
		}
	}
	return rows
}

// AncestorIDs returns the IDs of every ancestor of the node with the given
// ID, outermost first. ok is false when the node is not in the forest.
func AncestorIDs(nodes []Node, id string) (ids []string, ok bool) {
	for _, n := range nodes {
		if n.ID == id {
			return nil, true
		}
		if rest, found := AncestorIDs(n.Children, id); found {
			return append([]string{n.ID}, rest...), true
		}
	}
	return nil, false
}
