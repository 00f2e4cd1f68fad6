package tree

// Tree operations. Each mutating operation takes the current snapshot and
// returns either a new snapshot (nil error) or the input snapshot unchanged
// alongside a typed error. There are no partial-failure states: the returned
// snapshot always satisfies the structural invariants.

import (
	"treeline/internal/model"
)

// Children returns the children of parentID sorted ascending by order.
func Children(s Snapshot, parentID string) []model.Node {
	var out []model.Node
	for _, n := range s.nodes {
		if n.ParentID != nil && *n.ParentID == parentID {
			out = append(out, n)
		}
	}
	sortSiblings(out)
	return out
}

// DescendantIDs returns the set of ids transitively reachable below nodeID,
// excluding nodeID itself. Used for cycle prevention.
func DescendantIDs(s Snapshot, nodeID string) map[string]bool {
	kids := make(map[string][]string, len(s.nodes))
	for _, n := range s.nodes {
		if n.ParentID != nil {
			kids[*n.ParentID] = append(kids[*n.ParentID], n.ID)
		}
	}
	out := map[string]bool{}
	queue := append([]string{}, kids[nodeID]...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if out[id] {
			continue
		}
		out[id] = true
		queue = append(queue, kids[id]...)
	}
	return out
}

// FlattenedOrder is the canonical display order: a pre-order walk from the
// sentinel's children, siblings by order. Both the text view and keyboard
// navigation follow it. The sentinel itself is not included.
func FlattenedOrder(s Snapshot) []model.Node {
	var out []model.Node
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, c := range Children(s, parentID) {
			out = append(out, c)
			walk(c.ID)
		}
	}
	walk(RootID)
	return out
}

// Depth counts ancestor hops to the sentinel: the sentinel's direct children
// have depth 0. Unknown ids report 0.
func Depth(s Snapshot, nodeID string) int {
	depth := 0
	cur := nodeID
	for hops := 0; hops <= len(s.nodes); hops++ {
		n, ok := s.Find(cur)
		if !ok || n.ParentID == nil {
			return 0
		}
		if *n.ParentID == RootID {
			return depth
		}
		depth++
		cur = *n.ParentID
	}
	return 0
}

// NormalizeOrders reassigns 0..n-1 to the children of parentID, preserving
// their relative order. Other sibling groups are untouched.
func NormalizeOrders(s Snapshot, parentID string) Snapshot {
	ordered := Children(s, parentID)
	rank := make(map[string]float64, len(ordered))
	for i, c := range ordered {
		rank[c.ID] = float64(i)
	}
	next := s.clone()
	for i := range next {
		if r, ok := rank[next[i].ID]; ok {
			next[i].Order = r
		}
	}
	return Snapshot{nodes: next}
}

// Indent reparents nodeID under its immediately preceding sibling, appended
// after that sibling's existing children. Indenting a first sibling is a
// no-op: there is nothing to its left to become its parent.
func Indent(s Snapshot, nodeID string) (Snapshot, error) {
	if nodeID == RootID {
		return s, RootOperandError{Op: "indent"}
	}
	n, ok := s.Find(nodeID)
	if !ok {
		return s, NotFoundError{ID: nodeID}
	}
	sibs := Children(s, *n.ParentID)
	idx := indexOf(sibs, nodeID)
	if idx <= 0 {
		return s, ErrNoOp
	}
	prev := sibs[idx-1]
	order := 0.0
	if kids := Children(s, prev.ID); len(kids) > 0 {
		order = kids[len(kids)-1].Order + 1
	}
	oldParent := *n.ParentID
	next := setParentOrder(s, nodeID, prev.ID, order)
	next = NormalizeOrders(next, oldParent)
	return NormalizeOrders(next, prev.ID), nil
}

// Outdent reparents nodeID to its grandparent, placed immediately after its
// former parent. Top-level nodes cannot be outdented further.
func Outdent(s Snapshot, nodeID string) (Snapshot, error) {
	if nodeID == RootID {
		return s, RootOperandError{Op: "outdent"}
	}
	n, ok := s.Find(nodeID)
	if !ok {
		return s, NotFoundError{ID: nodeID}
	}
	if *n.ParentID == RootID {
		return s, ErrNoOp
	}
	parent, ok := s.Find(*n.ParentID)
	if !ok {
		return s, NotFoundError{ID: *n.ParentID}
	}
	oldParent := parent.ID
	next := setParentOrder(s, nodeID, *parent.ParentID, parent.Order+0.5)
	next = NormalizeOrders(next, oldParent)
	return NormalizeOrders(next, *parent.ParentID), nil
}

// AddAfter inserts n as the sibling immediately following afterID. If afterID
// is not in the snapshot, n is appended as supplied (the caller is expected to
// have set its ParentID explicitly in that case) rather than failing.
func AddAfter(s Snapshot, afterID string, n model.Node) Snapshot {
	after, ok := s.Find(afterID)
	if !ok || after.ParentID == nil {
		if n.ParentID == nil {
			n.ParentID = parentRef(RootID)
		}
		next := append(s.clone(), n)
		return NormalizeOrders(Snapshot{nodes: next}, *n.ParentID)
	}
	n.ParentID = parentRef(*after.ParentID)
	n.Order = after.Order + 0.5
	next := append(s.clone(), n)
	return NormalizeOrders(Snapshot{nodes: next}, *after.ParentID)
}

// Delete removes nodeID and promotes its direct children to the deleted
// node's former parent, contiguously where the deleted node used to sit and
// in their existing relative order. Children are never destroyed.
func Delete(s Snapshot, nodeID string) (Snapshot, error) {
	if nodeID == RootID {
		return s, RootOperandError{Op: "delete"}
	}
	n, ok := s.Find(nodeID)
	if !ok {
		return s, NotFoundError{ID: nodeID}
	}
	kids := Children(s, nodeID)
	// Slot the promoted children strictly between the deleted node's order
	// and the next sibling's.
	eps := 1.0 / float64(len(kids)+1)
	slot := make(map[string]float64, len(kids))
	for i, c := range kids {
		slot[c.ID] = n.Order + float64(i+1)*eps
	}
	next := make([]model.Node, 0, len(s.nodes)-1)
	for _, x := range s.nodes {
		if x.ID == nodeID {
			continue
		}
		if o, ok := slot[x.ID]; ok {
			x.ParentID = parentRef(*n.ParentID)
			x.Order = o
		}
		next = append(next, x)
	}
	return NormalizeOrders(Snapshot{nodes: next}, *n.ParentID), nil
}

// Move reparents nodeID under newParentID, appended after any existing
// children. It fails when either id is unknown, when the two are the same
// node, or when newParentID sits inside nodeID's own subtree.
func Move(s Snapshot, nodeID, newParentID string) (Snapshot, error) {
	order := 0.0
	if kids := Children(s, newParentID); len(kids) > 0 {
		order = kids[len(kids)-1].Order + 1
	}
	return moveTo(s, nodeID, newParentID, order)
}

// MoveBefore places nodeID as the sibling immediately preceding targetID.
func MoveBefore(s Snapshot, nodeID, targetID string) (Snapshot, error) {
	t, ok := s.Find(targetID)
	if !ok || t.ParentID == nil {
		return s, NotFoundError{ID: targetID}
	}
	return moveTo(s, nodeID, *t.ParentID, t.Order-0.5)
}

// MoveAfter places nodeID as the sibling immediately following targetID.
func MoveAfter(s Snapshot, nodeID, targetID string) (Snapshot, error) {
	t, ok := s.Find(targetID)
	if !ok || t.ParentID == nil {
		return s, NotFoundError{ID: targetID}
	}
	return moveTo(s, nodeID, *t.ParentID, t.Order+0.5)
}

// MoveAsFirstChild places nodeID before any existing child of targetID.
func MoveAsFirstChild(s Snapshot, nodeID, targetID string) (Snapshot, error) {
	return moveTo(s, nodeID, targetID, -0.5)
}

func moveTo(s Snapshot, nodeID, parentID string, order float64) (Snapshot, error) {
	if nodeID == RootID {
		return s, RootOperandError{Op: "move"}
	}
	n, ok := s.Find(nodeID)
	if !ok {
		return s, NotFoundError{ID: nodeID}
	}
	if _, ok := s.Find(parentID); !ok {
		return s, NotFoundError{ID: parentID}
	}
	if nodeID == parentID || DescendantIDs(s, nodeID)[parentID] {
		return s, CycleError{NodeID: nodeID, ParentID: parentID}
	}
	oldParent := *n.ParentID
	next := setParentOrder(s, nodeID, parentID, order)
	next = NormalizeOrders(next, oldParent)
	return NormalizeOrders(next, parentID), nil
}

// SetText replaces a node's label. This is the one edit that is not
// structural: parentage and ordering are untouched, and callers exclude it
// from history capture.
func SetText(s Snapshot, nodeID, text string) (Snapshot, error) {
	if nodeID == RootID {
		return s, RootOperandError{Op: "set-text"}
	}
	if _, ok := s.Find(nodeID); !ok {
		return s, NotFoundError{ID: nodeID}
	}
	next := s.clone()
	for i := range next {
		if next[i].ID == nodeID {
			next[i].Text = text
		}
	}
	return Snapshot{nodes: next}, nil
}

func setParentOrder(s Snapshot, nodeID, parentID string, order float64) Snapshot {
	next := s.clone()
	for i := range next {
		if next[i].ID == nodeID {
			next[i].ParentID = parentRef(parentID)
			next[i].Order = order
		}
	}
	return Snapshot{nodes: next}
}

func indexOf(xs []model.Node, id string) int {
	for i, x := range xs {
		if x.ID == id {
			return i
		}
	}
	return -1
}
