package tree

import (
	"errors"
	"fmt"
)

// ErrNoOp marks an operation that is structurally legal but has no effect,
// e.g. indenting the first sibling. Callers skip history recording and UI
// feedback for these the same way they do for hard failures.
var ErrNoOp = errors.New("no-op")

type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("node not found: %s", e.ID)
}

// CycleError reports a move that would make a node its own ancestor.
type CycleError struct {
	NodeID   string
	ParentID string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("cannot move %s under %s (cycle)", e.NodeID, e.ParentID)
}

// RootOperandError reports the forest-root sentinel passed where a visible
// node is required.
type RootOperandError struct {
	Op string
}

func (e RootOperandError) Error() string {
	return "forest root is not a valid operand: " + e.Op
}
