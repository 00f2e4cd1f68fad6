// Package editor ties the pure tree operations, the history manager, and the
// drop classifier together behind one explicit, caller-owned state handle.
// There is no ambient singleton: both the outline view and the diagram view
// render from the same *Editor their caller constructed.
package editor

import (
	"treeline/internal/drop"
	"treeline/internal/history"
	"treeline/internal/model"
	"treeline/internal/tree"
)

// Editor owns the current snapshot, the selection, and the undo/redo history.
// Structural edits go through apply, which records the pre-edit snapshot;
// label edits bypass history by design.
type Editor struct {
	snap     tree.Snapshot
	selected string
	hist     *history.History
	newID    func() string
}

// New builds an editor over an initial snapshot. newID supplies fresh
// globally-unique node ids; historyCap bounds both undo and redo depth.
func New(snap tree.Snapshot, historyCap int, newID func() string) *Editor {
	return &Editor{
		snap:  snap,
		hist:  history.New(historyCap),
		newID: newID,
	}
}

func (e *Editor) Snapshot() tree.Snapshot { return e.snap }

func (e *Editor) SelectedID() string { return e.selected }

// Select sets the selected node id. Unknown ids clear the selection.
func (e *Editor) Select(id string) {
	if _, ok := e.snap.Find(id); ok && id != tree.RootID {
		e.selected = id
		return
	}
	e.selected = ""
}

// apply runs a structural edit, recording the pre-edit snapshot on success.
// Failures of any kind leave the snapshot and the history untouched.
func (e *Editor) apply(op func(tree.Snapshot) (tree.Snapshot, error)) error {
	next, err := op(e.snap)
	if err != nil {
		return err
	}
	e.hist.Record(e.snap)
	e.snap = next
	return nil
}

func (e *Editor) Indent(id string) error {
	return e.apply(func(s tree.Snapshot) (tree.Snapshot, error) { return tree.Indent(s, id) })
}

func (e *Editor) Outdent(id string) error {
	return e.apply(func(s tree.Snapshot) (tree.Snapshot, error) { return tree.Outdent(s, id) })
}

func (e *Editor) Delete(id string) error {
	n, ok := e.snap.Find(id)
	err := e.apply(func(s tree.Snapshot) (tree.Snapshot, error) { return tree.Delete(s, id) })
	if err == nil && ok && e.selected == id {
		// Keep the selection somewhere sensible after a delete.
		if n.ParentID != nil && *n.ParentID != tree.RootID {
			e.selected = *n.ParentID
		} else {
			e.selected = ""
		}
	}
	return err
}

func (e *Editor) Move(id, newParentID string) error {
	return e.apply(func(s tree.Snapshot) (tree.Snapshot, error) { return tree.Move(s, id, newParentID) })
}

func (e *Editor) MoveBefore(id, targetID string) error {
	return e.apply(func(s tree.Snapshot) (tree.Snapshot, error) { return tree.MoveBefore(s, id, targetID) })
}

func (e *Editor) MoveAfter(id, targetID string) error {
	return e.apply(func(s tree.Snapshot) (tree.Snapshot, error) { return tree.MoveAfter(s, id, targetID) })
}

func (e *Editor) MoveAsFirstChild(id, targetID string) error {
	return e.apply(func(s tree.Snapshot) (tree.Snapshot, error) { return tree.MoveAsFirstChild(s, id, targetID) })
}

// InsertAfter creates a fresh node with the given text as the sibling
// following afterID, and selects it. An empty or unknown afterID appends the
// node at top level.
func (e *Editor) InsertAfter(afterID, text string) (model.Node, error) {
	n := model.Node{ID: e.newID(), Text: text}
	if _, ok := e.snap.Find(afterID); !ok || afterID == tree.RootID {
		p := tree.RootID
		n.ParentID = &p
		if kids := tree.Children(e.snap, tree.RootID); len(kids) > 0 {
			n.Order = kids[len(kids)-1].Order + 1
		}
	}
	err := e.apply(func(s tree.Snapshot) (tree.Snapshot, error) {
		return tree.AddAfter(s, afterID, n), nil
	})
	if err != nil {
		return model.Node{}, err
	}
	e.selected = n.ID
	inserted, _ := e.snap.Find(n.ID)
	return inserted, nil
}

// SetText is a label-only edit: it never touches history, so CanUndo is
// unchanged by any amount of typing.
func (e *Editor) SetText(id, text string) error {
	next, err := tree.SetText(e.snap, id, text)
	if err != nil {
		return err
	}
	e.snap = next
	return nil
}

// ApplyDrop maps a resolved drop target onto the corresponding move. A miss
// (ok == false, drag released over empty space) promotes the dragged node to
// top level, appended last.
func (e *Editor) ApplyDrop(draggedID string, target drop.Target, ok bool) error {
	if !ok {
		return e.Move(draggedID, tree.RootID)
	}
	switch target.Mode {
	case model.InsertBefore:
		return e.MoveBefore(draggedID, target.NodeID)
	case model.InsertAfter:
		return e.MoveAfter(draggedID, target.NodeID)
	default:
		return e.MoveAsFirstChild(draggedID, target.NodeID)
	}
}

func (e *Editor) Undo() error {
	next, err := e.hist.Undo(e.snap)
	if err != nil {
		return err
	}
	e.snap = next
	e.Select(e.selected) // drop the selection if the node no longer exists
	return nil
}

func (e *Editor) Redo() error {
	next, err := e.hist.Redo(e.snap)
	if err != nil {
		return err
	}
	e.snap = next
	e.Select(e.selected)
	return nil
}

func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }
