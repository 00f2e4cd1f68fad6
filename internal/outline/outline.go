// Package outline converts between the node tree and an indentation-delimited
// line format: one line per node, depth expressed as leading whitespace.
// The format is deliberately permissive: any line can be read as "a node at
// some depth", so parsing never fails.
package outline

import (
	"strings"

	"treeline/internal/model"
	"treeline/internal/tree"
)

// Parse reads an indented outline into a tree. The indentation unit (tab or
// space) is detected from the first indented line; each line's depth is the
// count of leading unit characters. Blank lines are skipped. newID supplies a
// fresh globally-unique id per node.
func Parse(text string, newID func() string) tree.Snapshot {
	unit := detectUnit(text)

	nodes := []model.Node{{ID: tree.RootID}}
	childCount := map[string]int{}

	type frame struct {
		depth int
		id    string
	}
	stack := []frame{}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		depth := leadingRun(line, unit)

		// Entries at this depth or deeper are not ancestors of this line.
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		parentID := tree.RootID
		if len(stack) > 0 {
			parentID = stack[len(stack)-1].id
		}

		id := newID()
		p := parentID
		nodes = append(nodes, model.Node{
			ID:       id,
			Text:     trimmed,
			ParentID: &p,
			Order:    float64(childCount[parentID]),
		})
		childCount[parentID]++
		stack = append(stack, frame{depth: depth, id: id})
	}
	return tree.FromNodes(nodes)
}

// Format renders the tree in display order, one line per node, indented one
// space per depth level. The output always re-parses to the same structure,
// though tab-indented input does not round-trip byte-identically.
func Format(s tree.Snapshot) string {
	var b strings.Builder
	for i, n := range tree.FlattenedOrder(s) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(" ", tree.Depth(s, n.ID)))
		b.WriteString(n.Text)
	}
	return b.String()
}

// detectUnit returns the indentation unit character: the first leading
// whitespace character of the first indented line. Space when nothing is
// indented.
func detectUnit(text string) byte {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			return line[0]
		}
	}
	return ' '
}

func leadingRun(line string, unit byte) int {
	n := 0
	for n < len(line) && line[n] == unit {
		n++
	}
	return n
}
