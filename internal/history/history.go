// Package history provides bounded undo/redo over whole-tree snapshots.
// Snapshots are cheap immutable values, so the stacks hold full copies of the
// pre-edit state rather than inverse operations.
package history

import (
	"errors"
	"sync"

	"treeline/internal/tree"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

const defaultCapacity = 100

// History manages the past and future snapshot stacks. Only structural edits
// are recorded; label-only text edits bypass it entirely so typing does not
// generate one history entry per keystroke.
type History struct {
	mu sync.Mutex

	past   []tree.Snapshot
	future []tree.Snapshot

	capacity int
}

// New creates a history manager with the given stack capacity. The oldest
// entries are evicted first when a stack overflows.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &History{capacity: capacity}
}

// Record pushes the pre-edit snapshot onto the past stack and clears the
// future stack: a new edit invalidates any redo path.
func (h *History) Record(pre tree.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.past = trimPush(h.past, pre, h.capacity)
	h.future = nil
}

// Undo pops the most recent past snapshot, pushes current onto the future
// stack, and returns the popped snapshot as the new current state.
func (h *History) Undo(current tree.Snapshot) (tree.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.past) == 0 {
		return current, ErrNothingToUndo
	}
	popped := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = trimPush(h.future, current, h.capacity)
	return popped, nil
}

// Redo is the symmetric counterpart of Undo.
func (h *History) Redo(current tree.Snapshot) (tree.Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.future) == 0 {
		return current, ErrNothingToRedo
	}
	popped := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = trimPush(h.past, current, h.capacity)
	return popped, nil
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past) > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future) > 0
}

// UndoCount reports the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past)
}

func trimPush(stack []tree.Snapshot, s tree.Snapshot, capacity int) []tree.Snapshot {
	stack = append(stack, s)
	if len(stack) > capacity {
		stack = stack[len(stack)-capacity:]
	}
	return stack
}
