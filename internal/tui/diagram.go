package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"treeline/internal/model"
	"treeline/internal/tree"
)

// canvas is a simple cell grid the diagram is composited onto before styling.
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	cells := make([][]rune, h)
	for y := range cells {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

func (c *canvas) get(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return ' '
	}
	return c.cells[y][x]
}

func (c *canvas) text(x, y int, s string) {
	for _, r := range s {
		c.set(x, y, r)
		x += runewidth.RuneWidth(r)
	}
}

// box draws a single-line border box with the label centered vertically.
func (c *canvas) box(r model.Rect) {
	right := r.Right() - 1
	bottom := r.Bottom() - 1

	c.set(r.X, r.Y, '┌')
	c.set(right, r.Y, '┐')
	c.set(r.X, bottom, '└')
	c.set(right, bottom, '┘')
	for x := r.X + 1; x < right; x++ {
		c.set(x, r.Y, '─')
		c.set(x, bottom, '─')
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.set(r.X, y, '│')
		c.set(right, y, '│')
	}
	c.text(r.X+2, r.Y+r.Height/2, r.Label)
}

// connect draws an elbow from a parent box's right edge to a child box's
// left edge. Children sit below and to the right, so the elbow runs down
// from the parent then across to the child.
func (c *canvas) connect(parent, child model.Rect) {
	midY := parent.Y + parent.Height/2
	childY := child.Y + child.Height/2
	stemX := parent.Right() + 1

	if childY == midY {
		for x := parent.Right(); x < child.X; x++ {
			c.set(x, midY, '─')
		}
		return
	}

	c.set(stemX, midY, '─')
	for y := midY + 1; y < childY; y++ {
		if c.get(stemX, y) == '─' {
			c.set(stemX, y, '┼')
		} else {
			c.set(stemX, y, '│')
		}
	}
	if c.get(stemX, midY) == '─' {
		c.set(stemX, midY, '┬')
	}
	c.set(stemX, childY, '└')
	for x := stemX + 1; x < child.X; x++ {
		c.set(x, childY, '─')
	}
}

func (c *canvas) String() string {
	var b []byte
	for y, row := range c.cells {
		if y > 0 {
			b = append(b, '\n')
		}
		b = append(b, []byte(string(row))...)
	}
	return string(b)
}

// renderDiagram draws the snapshot as connected boxes. The selected node's
// box is highlighted, and an in-flight drag overlays the resolved target's
// box in the accent color.
func renderDiagram(s tree.Snapshot, rects []model.Rect, selected, dragTarget, dragged string) string {
	w, h := 0, 0
	for _, r := range rects {
		if r.Right() > w {
			w = r.Right()
		}
		if r.Bottom() > h {
			h = r.Bottom()
		}
	}
	c := newCanvas(w+1, h)

	byID := make(map[string]model.Rect, len(rects))
	for _, r := range rects {
		byID[r.NodeID] = r
	}
	for _, r := range rects {
		n, ok := s.Find(r.NodeID)
		if !ok || n.ParentID == nil || *n.ParentID == tree.RootID {
			continue
		}
		if pr, ok := byID[*n.ParentID]; ok {
			c.connect(pr, r)
		}
	}
	for _, r := range rects {
		c.box(r)
	}

	out := c.String()
	if selected == "" && dragTarget == "" && dragged == "" {
		return out
	}
	return styleDiagramRows(out, byID, selected, dragTarget, dragged)
}

// styleDiagramRows applies per-box styling row by row. Styling whole rows
// would bleed onto connectors, so only the box's own columns are recolored.
func styleDiagramRows(out string, byID map[string]model.Rect, selected, dragTarget, dragged string) string {
	lines := splitLines(out)
	apply := func(r model.Rect, st lipgloss.Style) {
		for y := r.Y; y < r.Bottom() && y < len(lines); y++ {
			ln := []rune(lines[y])
			if r.Right() > len(ln) {
				continue
			}
			seg := string(ln[r.X:r.Right()])
			lines[y] = string(ln[:r.X]) + st.Render(seg) + string(ln[r.Right():])
		}
	}
	if r, ok := byID[selected]; ok {
		apply(r, selectedBoxStyle)
	}
	if r, ok := byID[dragged]; ok && dragged != selected {
		apply(r, draggedBoxStyle)
	}
	if r, ok := byID[dragTarget]; ok {
		apply(r, dropTargetStyle)
	}
	return joinLines(lines)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func joinLines(lines []string) string {
	out := ""
	for i, ln := range lines {
		if i > 0 {
			out += "\n"
		}
		out += ln
	}
	return out
}
