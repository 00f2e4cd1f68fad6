package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"treeline/internal/docs"
	"treeline/internal/drop"
	"treeline/internal/editor"
	"treeline/internal/layout"
	"treeline/internal/model"
	"treeline/internal/store"
	"treeline/internal/tree"
)

type pane int

const (
	paneOutline pane = iota
	paneDiagram
)

type editKind int

const (
	editNone editKind = iota
	editRename
	editInsert
)

// dragState tracks an in-flight mouse drag on the diagram pane.
type dragState struct {
	nodeID string
	curX   int
	curY   int
}

type appModel struct {
	store store.Store
	ed    *editor.Editor

	width  int
	height int
	pane   pane

	editing   editKind
	input     textinput.Model
	editingID string

	drag     *dragState
	showHelp bool
	status   string
	statusIs errLevel
}

type errLevel int

const (
	statusInfo errLevel = iota
	statusError
)

func newAppModel(s store.Store, st store.State) appModel {
	ed := editor.New(st.Snapshot, 100, store.IDGenerator())
	ed.Select(st.SelectedID)
	if ed.SelectedID() == "" {
		if order := visibleOrder(st.Snapshot); len(order) > 0 {
			ed.Select(order[0])
		}
	}
	in := textinput.New()
	in.Placeholder = "Text"
	in.CharLimit = 200
	in.Width = 40
	return appModel{store: s, ed: ed, input: in}
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m appModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.save()
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "esc":
		if m.drag != nil {
			m.drag = nil
			m.status = "drag canceled"
			m.statusIs = statusInfo
		}
		return m, nil

	case "v":
		if m.pane == paneOutline {
			m.pane = paneDiagram
		} else {
			m.pane = paneOutline
		}
		return m, nil

	case "up", "k":
		m.selectByOffset(-1)
		return m, nil

	case "down", "j":
		m.selectByOffset(1)
		return m, nil

	case "tab":
		m.report(m.ed.Indent(m.ed.SelectedID()), "indented")
		return m, nil

	case "shift+tab":
		m.report(m.ed.Outdent(m.ed.SelectedID()), "outdented")
		return m, nil

	case "enter":
		m.editing = editInsert
		m.editingID = m.ed.SelectedID()
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "e":
		id := m.ed.SelectedID()
		n, ok := m.ed.Snapshot().Find(id)
		if !ok {
			return m, nil
		}
		m.editing = editRename
		m.editingID = id
		m.input.SetValue(n.Text)
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case "D":
		m.report(m.ed.Delete(m.ed.SelectedID()), "deleted")
		return m, nil

	case "u":
		m.report(m.ed.Undo(), "undone")
		return m, nil

	case "ctrl+r":
		m.report(m.ed.Redo(), "redone")
		return m, nil
	}
	return m, nil
}

func (m appModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = editNone
		m.input.Blur()
		return m, nil

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		switch m.editing {
		case editRename:
			if text != "" {
				m.report(m.ed.SetText(m.editingID, text), "renamed")
			}
		case editInsert:
			if text != "" {
				_, err := m.ed.InsertAfter(m.editingID, text)
				m.report(err, "added")
			}
		}
		m.editing = editNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y, ok := m.toDiagramCell(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok {
			return m, nil
		}
		rects := layout.Rects(m.ed.Snapshot())
		if r, hit := layout.At(rects, x, y); hit {
			m.pane = paneDiagram
			m.ed.Select(r.NodeID)
			m.drag = &dragState{nodeID: r.NodeID, curX: x, curY: y}
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.drag != nil && ok {
			m.drag.curX = x
			m.drag.curY = y
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.drag == nil {
			return m, nil
		}
		d := *m.drag
		m.drag = nil
		target, hit := m.resolveDrag(d)
		m.report(m.ed.ApplyDrop(d.nodeID, target, hit), "moved")
		return m, nil
	}
	return m, nil
}

// resolveDrag runs target resolution against the current layout, with the
// dragged box relocated to the cursor and the dragged subtree excluded.
func (m appModel) resolveDrag(d dragState) (drop.Target, bool) {
	s := m.ed.Snapshot()
	rects := layout.Rects(s)
	dragged, ok := layout.RectFor(rects, d.nodeID)
	if !ok {
		return drop.Target{}, false
	}
	dragged.X = d.curX - dragged.Width/2
	dragged.Y = d.curY - dragged.Height/2

	excluded := tree.DescendantIDs(s, d.nodeID)
	candidates := make([]model.Rect, 0, len(rects))
	for _, r := range rects {
		if r.NodeID == d.nodeID || excluded[r.NodeID] {
			continue
		}
		candidates = append(candidates, r)
	}
	return drop.Resolve(dragged, candidates)
}

// dragPreviewTarget is resolveDrag without the mutation, for live highlight.
func (m appModel) dragPreviewTarget() string {
	if m.drag == nil {
		return ""
	}
	t, ok := m.resolveDrag(*m.drag)
	if !ok {
		return ""
	}
	return t.NodeID
}

func (m *appModel) report(err error, okMsg string) {
	switch {
	case err == nil:
		m.status = okMsg
		m.statusIs = statusInfo
	default:
		m.status = err.Error()
		m.statusIs = statusError
	}
}

func (m *appModel) selectByOffset(delta int) {
	order := visibleOrder(m.ed.Snapshot())
	if len(order) == 0 {
		return
	}
	idx := 0
	for i, id := range order {
		if id == m.ed.SelectedID() {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(order) {
		idx = len(order) - 1
	}
	m.ed.Select(order[idx])
}

// visibleOrder is the flattened pre-order, sentinel excluded, as ids.
func visibleOrder(s tree.Snapshot) []string {
	flat := tree.FlattenedOrder(s)
	out := make([]string, 0, len(flat))
	for _, n := range flat {
		out = append(out, n.ID)
	}
	return out
}

func (m appModel) save() {
	_ = m.store.Save(context.Background(), store.State{
		Snapshot:   m.ed.Snapshot(),
		SelectedID: m.ed.SelectedID(),
	})
}

// Pane geometry. The body is two bordered panes under a one-line header,
// with a one-line status bar at the bottom.

func (m appModel) paneWidths() (leftW, rightW int) {
	leftW = m.width / 3
	if leftW < 24 {
		leftW = 24
	}
	if leftW > m.width-10 {
		leftW = m.width - 10
	}
	rightW = m.width - leftW
	return leftW, rightW
}

func (m appModel) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// toDiagramCell maps terminal coordinates to diagram-canvas coordinates,
// reporting whether the point falls inside the diagram pane's content area.
func (m appModel) toDiagramCell(x, y int) (int, int, bool) {
	leftW, rightW := m.paneWidths()
	cx := x - leftW - 1
	cy := y - 2
	if cx < 0 || cy < 0 || cx >= rightW-2 || cy >= m.bodyHeight()-2 {
		return 0, 0, false
	}
	return cx, cy, true
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.viewHelp()
	}

	leftW, rightW := m.paneWidths()
	bodyH := m.bodyHeight()

	left := m.viewOutline(leftW-2, bodyH-2)
	right := m.viewDiagram(rightW-2, bodyH-2)

	lb, rb := paneBorder, paneBorder
	if m.pane == paneOutline {
		lb = paneBorderFocused
	} else {
		rb = paneBorderFocused
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lb.Render(normalizePane(left, leftW-2, bodyH-2)),
		rb.Render(normalizePane(right, rightW-2, bodyH-2)),
	)

	header := headerStyle.Render(" treeline ") + breadcrumbSty.Render(m.store.Dir)
	return header + "\n" + body + "\n" + m.viewStatus()
}

func (m appModel) viewOutline(w, h int) string {
	s := m.ed.Snapshot()
	var b strings.Builder
	for i, id := range visibleOrder(s) {
		if i >= h {
			break
		}
		n, ok := s.Find(id)
		if !ok {
			continue
		}
		depth := tree.Depth(s, id)
		line := strings.Repeat("  ", depth) + bulletStyle.Render("• ")

		if m.editing != editNone && m.editingID == id && m.editing == editRename {
			line += m.input.View()
		} else {
			line += n.Text
		}
		if id == m.ed.SelectedID() && m.editing == editNone {
			line = selectedStyle.Render(normalizePane(line, w, 1))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.editing == editInsert {
		b.WriteString(bulletStyle.Render("+ "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) viewDiagram(w, h int) string {
	s := m.ed.Snapshot()
	rects := layout.Rects(s)
	dragged := ""
	if m.drag != nil {
		dragged = m.drag.nodeID
	}
	out := renderDiagram(s, rects, m.ed.SelectedID(), m.dragPreviewTarget(), dragged)
	return normalizePane(out, w, h)
}

func (m appModel) viewStatus() string {
	hint := "? help · v pane · tab/shift+tab indent · enter add · e edit · D delete · u undo · q quit"
	if m.drag != nil {
		hint = "release to drop · esc cancels"
	}
	line := " " + hint
	if m.status != "" {
		st := statusStyle
		if m.statusIs == statusError {
			st = errorStyle
		}
		line = " " + st.Render(m.status) + statusStyle.Render(" · ") + hint
	}
	return statusStyle.Render(normalizePane(line, m.width, 1))
}

func (m appModel) viewHelp() string {
	md, ok := docs.Get("keys")
	if !ok {
		md = "# Keys\n\nNo help available."
	}
	w := m.width - 4
	if w > 80 {
		w = 80
	}
	body := renderMarkdown(md, w)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}
