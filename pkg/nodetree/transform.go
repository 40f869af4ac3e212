package nodetree

import (
	"strings"

	"golang.org/x/text/cases"
)

// TagVisibility returns a copy of nodes in which every node, at every depth,
// has Visible set to visible. All other fields and child ordering are
// preserved. Nil child lists come back as empty slices.
func TagVisibility(nodes []Node, visible bool) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Visible = visible
		n.Children = TagVisibility(n.Children, visible)
		out[i] = n
	}
	return out
}

// FilterByTerm returns a copy of nodes with Visible recomputed bottom-up for
// the search term. A node is visible when its Path contains term
// (case-insensitive) or when any of its filtered children is visible.
//
// An empty term matches every path. Callers that want "empty means show all"
// as an explicit policy should use ApplySearch.
func FilterByTerm(nodes []Node, term string) []Node {
	m := newMatcher(term)
	return m.filter(nodes)
}

// ApplySearch applies the search policy used by every front end: a term that
// is blank after trimming shows the whole tree, anything else filters.
func ApplySearch(nodes []Node, term string) []Node {
	if IsBlankTerm(term) {
		return TagVisibility(nodes, true)
	}
	return FilterByTerm(nodes, term)
}

// IsBlankTerm reports whether term should be treated as "no search".
func IsBlankTerm(term string) bool {
	return strings.TrimSpace(term) == ""
}

// ApplyFieldUpdate returns a forest equal to nodes except that the node whose
// ID equals id has HistoryEnabled replaced. Only the nodes on the path from the
// root to the match are copied; every other subtree is shared with the input.
//
// found reports whether a node matched. When nothing matches the input slice
// itself is returned. If identifiers are not unique, the first match in
// pre-order is updated.
func ApplyFieldUpdate(nodes []Node, id string, historyEnabled bool) (updated []Node, found bool) {
	for i := range nodes {
		n := nodes[i]
		if n.ID == id {
			n.HistoryEnabled = historyEnabled
		} else {
			children, ok := ApplyFieldUpdate(n.Children, id, historyEnabled)
			if !ok {
				continue
			}
			n.Children = children
		}

		out := make([]Node, len(nodes))
		copy(out, nodes)
		out[i] = n
		return out, true
	}
	return nodes, false
}

// matcher folds case once per term so that the filter pass only folds paths.
type matcher struct {
	caser cases.Caser
	term  string
}

func newMatcher(term string) *matcher {
	c := cases.Fold()
	return &matcher{caser: c, term: c.String(term)}
}

func (m *matcher) matches(path string) bool {
	return strings.Contains(m.caser.String(path), m.term)
}

func (m *matcher) filter(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		children := m.filter(n.Children)
		anyChild := false
		for _, c := range children {
			if c.Visible {
				anyChild = true
				break
			}
		}
		n.Visible = m.matches(n.Path) || anyChild
		n.Children = children
		out[i] = n
	}
	return out
}

// MatchesTerm reports whether path contains term, ignoring case.
func MatchesTerm(path, term string) bool {
	return newMatcher(term).matches(path)
}
