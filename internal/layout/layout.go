// Package layout assigns on-screen rectangles to nodes for the diagram view:
// left-to-right depth columns, one row per node in display order. The drop
// classifier consumes these rects; it has no other coupling to this package.
package layout

import (
	"github.com/mattn/go-runewidth"

	"treeline/internal/model"
	"treeline/internal/tree"
)

const (
	// Box metrics: label plus one border and one space of padding per side.
	BoxHPad   = 4
	BoxHeight = 3

	colGap = 4
	rowGap = 1
)

// Measure returns the box width for a label, display-width aware so wide
// runes don't shear the column.
func Measure(label string) int {
	return runewidth.StringWidth(label) + BoxHPad
}

// Rects lays out every visible node. Column x-offsets are cumulative over the
// widest box in each shallower column, so parents always sit entirely left of
// their children; rows follow the flattened display order.
func Rects(s tree.Snapshot) []model.Rect {
	flat := tree.FlattenedOrder(s)
	if len(flat) == 0 {
		return nil
	}

	depths := make([]int, len(flat))
	colWidth := map[int]int{}
	for i, n := range flat {
		d := tree.Depth(s, n.ID)
		depths[i] = d
		if w := Measure(n.Text); w > colWidth[d] {
			colWidth[d] = w
		}
	}

	colX := map[int]int{}
	x := 0
	for d := 0; ; d++ {
		w, ok := colWidth[d]
		if !ok {
			break
		}
		colX[d] = x
		x += w + colGap
	}

	out := make([]model.Rect, 0, len(flat))
	y := 0
	for i, n := range flat {
		out = append(out, model.Rect{
			NodeID: n.ID,
			Label:  n.Text,
			X:      colX[depths[i]],
			Y:      y,
			Width:  Measure(n.Text),
			Height: BoxHeight,
		})
		y += BoxHeight + rowGap
	}
	return out
}

// RectFor returns the rect of one node, if it is visible.
func RectFor(rects []model.Rect, nodeID string) (model.Rect, bool) {
	for _, r := range rects {
		if r.NodeID == nodeID {
			return r, true
		}
	}
	return model.Rect{}, false
}

// At returns the topmost rect containing the cell (x, y).
func At(rects []model.Rect, x, y int) (model.Rect, bool) {
	for _, r := range rects {
		if r.Contains(x, y) {
			return r, true
		}
	}
	return model.Rect{}, false
}
