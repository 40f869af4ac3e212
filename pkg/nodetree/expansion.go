package nodetree

import "sort"

// Expansion is the set of node IDs currently expanded in a view. It is kept
// apart from the node data and never sent to the backend.
//
// Methods that change membership return a new Expansion and leave the
// receiver untouched. The zero value is an empty set.
type Expansion struct {
	ids map[string]struct{}
}

// NewExpansion returns a set containing ids.
func NewExpansion(ids ...string) Expansion {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Expansion{ids: set}
}

// IsExpanded reports whether id is in the set.
func (e Expansion) IsExpanded(id string) bool {
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of expanded IDs.
func (e Expansion) Len() int {
	return len(e.ids)
}

// Toggle flips membership of id.
func (e Expansion) Toggle(id string) Expansion {
	if e.IsExpanded(id) {
		return e.Without(id)
	}
	return e.With(id)
}

// With returns a copy of the set with id added.
func (e Expansion) With(id string) Expansion {
	if e.IsExpanded(id) {
		return e
	}
	next := e.clone(len(e.ids) + 1)
	next.ids[id] = struct{}{}
	return next
}

// Without returns a copy of the set with id removed.
func (e Expansion) Without(id string) Expansion {
	if !e.IsExpanded(id) {
		return e
	}
	next := e.clone(len(e.ids))
	delete(next.ids, id)
	return next
}

// WithAll returns a copy of the set with every id added.
func (e Expansion) WithAll(ids ...string) Expansion {
	next := e.clone(len(e.ids) + len(ids))
	for _, id := range ids {
		next.ids[id] = struct{}{}
	}
	return next
}

// IDs returns the expanded IDs in sorted order.
func (e Expansion) IDs() []string {
	ids := make([]string, 0, len(e.ids))
	for id := range e.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e Expansion) clone(capacity int) Expansion {
	set := make(map[string]struct{}, capacity)
	for id := range e.ids {
		set[id] = struct{}{}
	}
	return Expansion{ids: set}
}
