package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"treeline/internal/layout"
	"treeline/internal/outline"
	"treeline/internal/store"
	"treeline/internal/tree"
)

func testModel(t *testing.T, text string) appModel {
	t.Helper()
	snap := outline.Parse(text, store.IDGenerator())
	m := newAppModel(store.Store{Dir: t.TempDir()}, store.State{Snapshot: snap})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mm.(appModel)
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		mm, _ := m.Update(msg)
		m = mm.(appModel)
	}
	return m
}

func formatted(m appModel) string {
	return outline.Format(m.ed.Snapshot())
}

func TestKeys_NavigationFollowsFlattenedOrder(t *testing.T) {
	m := testModel(t, "a\n b\nc\n")
	ids := visibleOrder(m.ed.Snapshot())
	if len(ids) != 3 {
		t.Fatalf("expected 3 visible nodes, got %d", len(ids))
	}
	if m.ed.SelectedID() != ids[0] {
		t.Fatalf("expected first node selected initially")
	}

	m = press(t, m, "j", "j")
	if m.ed.SelectedID() != ids[2] {
		t.Fatalf("expected selection on third node after j j")
	}

	// Clamped at the bottom.
	m = press(t, m, "j")
	if m.ed.SelectedID() != ids[2] {
		t.Fatalf("expected selection clamped at last node")
	}

	m = press(t, m, "k", "k", "k")
	if m.ed.SelectedID() != ids[0] {
		t.Fatalf("expected selection clamped at first node")
	}
}

func TestKeys_IndentOutdentAndUndo(t *testing.T) {
	m := testModel(t, "a\nb\n")
	m = press(t, m, "j", "tab")
	if got := formatted(m); got != "a\n b" {
		t.Fatalf("expected b indented under a, got %q", got)
	}

	m = press(t, m, "u")
	if got := formatted(m); got != "a\nb" {
		t.Fatalf("expected undo to restore flat outline, got %q", got)
	}

	m = press(t, m, "ctrl+r")
	if got := formatted(m); got != "a\n b" {
		t.Fatalf("expected redo to reapply indent, got %q", got)
	}

	m = press(t, m, "shift+tab")
	if got := formatted(m); got != "a\nb" {
		t.Fatalf("expected outdent to flatten again, got %q", got)
	}
}

func TestKeys_IndentFirstSiblingReportsNoop(t *testing.T) {
	m := testModel(t, "a\nb\n")
	m = press(t, m, "tab")
	if got := formatted(m); got != "a\nb" {
		t.Fatalf("expected no structural change, got %q", got)
	}
	if m.statusIs != statusError {
		t.Fatalf("expected error status for no-op indent, got %v (%q)", m.statusIs, m.status)
	}
}

func TestKeys_InsertAfterCreatesAndSelects(t *testing.T) {
	m := testModel(t, "a\n")
	before := m.ed.SelectedID()

	m = press(t, m, "enter")
	if m.editing != editInsert {
		t.Fatalf("expected insert editing mode")
	}
	m = press(t, m, "n", "e", "w", "enter")

	if m.ed.SelectedID() == before {
		t.Fatalf("expected new node selected after insert")
	}
	if got := formatted(m); got != "a\nnew" {
		t.Fatalf("expected new sibling appended, got %q", got)
	}
}

func TestKeys_RenameBypassesHistory(t *testing.T) {
	m := testModel(t, "a\n")
	m = press(t, m, "e")
	if m.editing != editRename {
		t.Fatalf("expected rename editing mode")
	}
	// Append to the existing text.
	m = press(t, m, "!", "enter")
	if got := formatted(m); got != "a!" {
		t.Fatalf("expected renamed node, got %q", got)
	}
	if m.ed.CanUndo() {
		t.Fatalf("expected rename to leave history empty")
	}
}

func TestKeys_EscCancelsEditing(t *testing.T) {
	m := testModel(t, "a\n")
	m = press(t, m, "e", "x", "esc")
	if m.editing != editNone {
		t.Fatalf("expected editing canceled")
	}
	if got := formatted(m); got != "a" {
		t.Fatalf("expected text unchanged after cancel, got %q", got)
	}
}

func TestKeys_DeleteSelectsFormerParent(t *testing.T) {
	m := testModel(t, "a\n b\n")
	ids := visibleOrder(m.ed.Snapshot())
	m.ed.Select(ids[1])
	m = press(t, m, "D")
	if got := formatted(m); got != "a" {
		t.Fatalf("expected child deleted, got %q", got)
	}
	if m.ed.SelectedID() != ids[0] {
		t.Fatalf("expected selection to move to former parent")
	}
}

func TestMouse_DragOntoLeftColumnReparents(t *testing.T) {
	m := testModel(t, "a\nb\n")
	ids := visibleOrder(m.ed.Snapshot())
	rects := layout.Rects(m.ed.Snapshot())
	ra, _ := layout.RectFor(rects, ids[0])
	rb, _ := layout.RectFor(rects, ids[1])

	leftW, _ := m.paneWidths()
	toScreen := func(x, y int) (int, int) { return x + leftW + 1, y + 2 }

	// Press on b, drag well to the right of a's box, release.
	px, py := toScreen(rb.X+rb.Width/2, rb.Y+rb.Height/2)
	mm, _ := m.Update(tea.MouseMsg{X: px, Y: py, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mm.(appModel)
	if m.drag == nil || m.drag.nodeID != ids[1] {
		t.Fatalf("expected drag to start on b")
	}

	dx, dy := toScreen(ra.Right()+20, ra.Y+ra.Height/2)
	mm, _ = m.Update(tea.MouseMsg{X: dx, Y: dy, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mm.(appModel)
	if got := m.dragPreviewTarget(); got != ids[0] {
		t.Fatalf("expected drag preview to highlight a, got %q", got)
	}

	mm, _ = m.Update(tea.MouseMsg{X: dx, Y: dy, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = mm.(appModel)
	if m.drag != nil {
		t.Fatalf("expected drag cleared on release")
	}
	if got := formatted(m); got != "a\n b" {
		t.Fatalf("expected b reparented under a, got %q", got)
	}
}

func TestMouse_DragOutsideNodesMovesToTopLevel(t *testing.T) {
	m := testModel(t, "a\n b\n")
	ids := visibleOrder(m.ed.Snapshot())
	rects := layout.Rects(m.ed.Snapshot())
	rb, _ := layout.RectFor(rects, ids[1])

	leftW, _ := m.paneWidths()
	px, py := rb.X+rb.Width/2+leftW+1, rb.Y+rb.Height/2+2
	mm, _ := m.Update(tea.MouseMsg{X: px, Y: py, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mm.(appModel)

	// Release with no remaining candidates in range: only a is a candidate,
	// but a sits left of the dragged box already; drop onto a's column above
	// still resolves. Exclude that by dragging far left of everything.
	mm, _ = m.Update(tea.MouseMsg{X: leftW + 1, Y: py, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mm.(appModel)
	mm, _ = m.Update(tea.MouseMsg{X: leftW + 1, Y: py, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = mm.(appModel)

	s := m.ed.Snapshot()
	n, ok := s.Find(ids[1])
	if !ok || n.ParentID == nil {
		t.Fatalf("expected b to survive the drop")
	}
	if *n.ParentID != ids[0] && *n.ParentID != tree.RootID {
		t.Fatalf("unexpected parent after drop: %q", *n.ParentID)
	}
}

func TestView_RendersPanesAndStatus(t *testing.T) {
	m := testModel(t, "root\n child\n")
	out := m.View()
	if !strings.Contains(out, "treeline") {
		t.Fatalf("expected header in view")
	}
	if !strings.Contains(out, "root") || !strings.Contains(out, "child") {
		t.Fatalf("expected node labels in view")
	}
	if !strings.Contains(out, "┌") || !strings.Contains(out, "└") {
		t.Fatalf("expected diagram boxes in view")
	}
}

func TestView_HelpOverlayListsKeys(t *testing.T) {
	m := testModel(t, "a\n")
	m = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("expected help overlay open")
	}
	out := m.View()
	if !strings.Contains(out, "ndent") {
		t.Fatalf("expected key help content in overlay")
	}
	m = press(t, m, "q")
	if m.showHelp {
		t.Fatalf("expected any key to dismiss help")
	}
}
