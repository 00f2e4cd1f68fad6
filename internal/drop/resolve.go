// Package drop classifies a drag gesture over the node diagram into a
// structural edit intent. It is pure geometry: it knows nothing about the
// tree beyond the node ids carried on the rectangles.
package drop

import (
	"math"

	"github.com/mattn/go-runewidth"

	"treeline/internal/model"
)

// Default box metrics used when a rect arrives without explicit dimensions:
// the width is approximated from the label's display width plus the box
// border and padding, matching the diagram layout.
const (
	boxHPad   = 4
	boxHeight = 3
)

// Target is the structural intent of a drag release: insert before/after a
// sibling, or become the first child of targetID.
type Target struct {
	NodeID string           `json:"nodeId"`
	Mode   model.InsertMode `json:"insertMode"`
}

// Resolve decides which structural edit a drag gesture represents.
//
// Candidates are split by column: a candidate whose horizontal range overlaps
// the dragged rect's is sibling-like, while a candidate entirely left of the
// dragged rect is parent-like (left-to-right tree diagrams place parents left
// of children). Sibling-like candidates win when any exist; the nearest is
// picked by vertical center distance, ties by horizontal left-edge distance,
// remaining ties by id. An empty candidate set reports ok == false, which
// callers interpret as promote-to-top-level.
func Resolve(dragged model.Rect, candidates []model.Rect) (Target, bool) {
	dragged = normalize(dragged)

	var sameColumn, leftNodes []model.Rect
	for _, c := range candidates {
		c = normalize(c)
		switch {
		case c.X < dragged.Right() && dragged.X < c.Right():
			sameColumn = append(sameColumn, c)
		case c.Right() <= dragged.X:
			leftNodes = append(leftNodes, c)
		}
		// Candidates entirely right of the dragged rect play no role:
		// nothing can be inserted relative to a deeper column.
	}

	if best, ok := nearest(dragged, sameColumn); ok {
		mode := model.InsertAfter
		if dragged.CenterY() < best.CenterY() {
			mode = model.InsertBefore
		}
		return Target{NodeID: best.NodeID, Mode: mode}, true
	}
	if best, ok := nearest(dragged, leftNodes); ok {
		return Target{NodeID: best.NodeID, Mode: model.InsertChild}, true
	}
	return Target{}, false
}

func nearest(dragged model.Rect, candidates []model.Rect) (model.Rect, bool) {
	if len(candidates) == 0 {
		return model.Rect{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if closer(dragged, c, best) {
			best = c
		}
	}
	return best, true
}

func closer(dragged, a, b model.Rect) bool {
	dya := math.Abs(dragged.CenterY() - a.CenterY())
	dyb := math.Abs(dragged.CenterY() - b.CenterY())
	if dya != dyb {
		return dya < dyb
	}
	dxa := math.Abs(float64(dragged.X - a.X))
	dxb := math.Abs(float64(dragged.X - b.X))
	if dxa != dxb {
		return dxa < dxb
	}
	return a.NodeID < b.NodeID
}

func normalize(r model.Rect) model.Rect {
	if r.Width <= 0 {
		r.Width = runewidth.StringWidth(r.Label) + boxHPad
	}
	if r.Height <= 0 {
		r.Height = boxHeight
	}
	return r
}
