package model

// Node is a single outline entry. The forest-root sentinel is the only node
// with a nil ParentID; it is never displayed and never a valid operand.
type Node struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	ParentID *string `json:"parentId,omitempty"`

	// Order establishes sibling sequence (ascending). It is a placement hint:
	// fractional values appear transiently during splices and are renormalized
	// to 0..n-1 per sibling group after every edit that touches the group.
	Order float64 `json:"order"`
}

type InsertMode string

const (
	InsertBefore InsertMode = "before"
	InsertAfter  InsertMode = "after"
	InsertChild  InsertMode = "child"
)

// Rect is an on-screen node box in cell coordinates, as produced by the
// diagram layout. Width/Height include box padding, so Right()/Bottom() are
// exclusive edges.
type Rect struct {
	NodeID string `json:"nodeId"`
	Label  string `json:"label"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) CenterX() float64 { return float64(r.X) + float64(r.Width)/2 }
func (r Rect) CenterY() float64 { return float64(r.Y) + float64(r.Height)/2 }

// Contains reports whether the cell (x, y) falls inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}
