package tree

import (
	"sort"

	"treeline/internal/model"
)

// RootID is the reserved id of the hidden forest-root sentinel. Every visible
// top-level node has ParentID pointing at it, so no operation has to
// special-case "no parent". The sentinel itself is the only node with a nil
// ParentID and is created exactly once, at forest initialization.
const RootID = "node-root"

// Snapshot is an immutable value over the whole node collection. Operations
// never mutate a snapshot in place; they copy and return a new one, so a
// rendering pass can never observe a half-applied edit.
type Snapshot struct {
	nodes []model.Node
}

// New returns a snapshot containing only the forest-root sentinel.
func New() Snapshot {
	return Snapshot{nodes: []model.Node{{ID: RootID}}}
}

// FromNodes builds a snapshot from a node list, copying it. A sentinel is
// added if the list does not already carry one; orphaned parent references
// are reattached to the sentinel so the result always satisfies the
// structural invariants.
func FromNodes(nodes []model.Node) Snapshot {
	out := make([]model.Node, 0, len(nodes)+1)
	byID := make(map[string]bool, len(nodes))
	hasRoot := false
	for _, n := range nodes {
		if n.ParentID == nil {
			if hasRoot {
				continue // at most one sentinel
			}
			hasRoot = true
		}
		byID[n.ID] = true
		out = append(out, n)
	}
	if !hasRoot {
		out = append(out, model.Node{ID: RootID})
		byID[RootID] = true
	}
	for i := range out {
		if out[i].ParentID != nil && !byID[*out[i].ParentID] {
			out[i].ParentID = parentRef(RootID)
		}
	}
	return Snapshot{nodes: out}
}

// Nodes returns a copy of the node collection, sentinel included.
func (s Snapshot) Nodes() []model.Node {
	out := make([]model.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Len is the number of visible nodes (sentinel excluded).
func (s Snapshot) Len() int {
	n := len(s.nodes)
	for _, x := range s.nodes {
		if x.ParentID == nil {
			n--
		}
	}
	return n
}

func (s Snapshot) Find(id string) (model.Node, bool) {
	for _, n := range s.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Node{}, false
}

// clone returns a mutable copy of the backing slice for building the next
// snapshot.
func (s Snapshot) clone() []model.Node {
	out := make([]model.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

func parentRef(id string) *string {
	p := id
	return &p
}

func sameParent(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// sortSiblings orders a sibling slice by Order, ties broken by ID so the
// result never depends on map or slice iteration order.
func sortSiblings(xs []model.Node) {
	sort.Slice(xs, func(i, j int) bool {
		if xs[i].Order != xs[j].Order {
			return xs[i].Order < xs[j].Order
		}
		return xs[i].ID < xs[j].ID
	})
}
