package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"treeline/internal/model"
	"treeline/internal/store"
	"treeline/internal/tree"
)

func newAddCmd(app *App) *cobra.Command {
	var after string
	var parent string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Create a node (sibling after --after, or under --parent, or appended top-level)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if after != "" && parent != "" {
				return writeErr(cmd, errors.New("use at most one of --after/--parent"))
			}

			id := store.IDGenerator()()
			n := model.Node{ID: id, Text: args[0]}
			next := st.Snapshot

			switch {
			case after != "":
				if _, ok := next.Find(after); !ok {
					return writeErr(cmd, tree.NotFoundError{ID: after})
				}
				next = tree.AddAfter(next, after, n)
			case parent != "":
				p := strings.TrimSpace(parent)
				if _, ok := next.Find(p); !ok {
					return writeErr(cmd, tree.NotFoundError{ID: p})
				}
				n.ParentID = &p
				next = tree.AddAfter(next, "", appendLast(next, n, p))
			default:
				next = tree.AddAfter(next, "", appendLast(next, n, tree.RootID))
			}

			st.Snapshot = next
			if err := saveState(s, st); err != nil {
				return writeErr(cmd, err)
			}
			inserted, _ := next.Find(id)
			return writeOut(cmd, app, map[string]any{"data": inserted})
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "Insert after this sibling id")
	cmd.Flags().StringVar(&parent, "parent", "", "Append as last child of this node id")
	return cmd
}

// appendLast prepares a node for the AddAfter unknown-anchor path: explicit
// parent, order past the current last sibling.
func appendLast(s tree.Snapshot, n model.Node, parentID string) model.Node {
	p := parentID
	n.ParentID = &p
	if kids := tree.Children(s, parentID); len(kids) > 0 {
		n.Order = kids[len(kids)-1].Order + 1
	}
	return n
}

func newMoveCmd(app *App) *cobra.Command {
	var before, after, parent, firstChildOf string

	cmd := &cobra.Command{
		Use:   "move <node-id>",
		Short: "Restructure: move a node before/after a sibling, under a parent, or as a first child",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]

			set := 0
			for _, v := range []string{before, after, parent, firstChildOf} {
				if strings.TrimSpace(v) != "" {
					set++
				}
			}
			if set != 1 {
				return writeErr(cmd, errors.New("provide exactly one of --before/--after/--parent/--first-child-of"))
			}

			var next tree.Snapshot
			var opErr error
			switch {
			case before != "":
				next, opErr = tree.MoveBefore(st.Snapshot, id, before)
			case after != "":
				next, opErr = tree.MoveAfter(st.Snapshot, id, after)
			case firstChildOf != "":
				next, opErr = tree.MoveAsFirstChild(st.Snapshot, id, firstChildOf)
			default:
				target := strings.TrimSpace(parent)
				if strings.EqualFold(target, "none") {
					target = tree.RootID
				}
				next, opErr = tree.Move(st.Snapshot, id, target)
			}
			if opErr != nil {
				return writeEditResult(cmd, app, opErr, nil)
			}

			st.Snapshot = next
			if err := saveState(s, st); err != nil {
				return writeErr(cmd, err)
			}
			moved, _ := next.Find(id)
			return writeEditResult(cmd, app, nil, moved)
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Place before this sibling id")
	cmd.Flags().StringVar(&after, "after", "", "Place after this sibling id")
	cmd.Flags().StringVar(&parent, "parent", "", "Append as last child of this node id (or 'none' for top level)")
	cmd.Flags().StringVar(&firstChildOf, "first-child-of", "", "Place before any existing child of this node id")
	return cmd
}

func newIndentCmd(app *App) *cobra.Command {
	return newStructuralCmd(app, "indent <node-id>",
		"Reparent a node under its preceding sibling", tree.Indent)
}

func newOutdentCmd(app *App) *cobra.Command {
	return newStructuralCmd(app, "outdent <node-id>",
		"Reparent a node to its grandparent, after its former parent", tree.Outdent)
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := newStructuralCmd(app, "delete <node-id>",
		"Remove a node; its children are promoted, never destroyed", tree.Delete)
	cmd.Aliases = []string{"rm"}
	return cmd
}

func newStructuralCmd(app *App, use, short string, op func(tree.Snapshot, string) (tree.Snapshot, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := args[0]
			next, opErr := op(st.Snapshot, id)
			if opErr != nil {
				return writeEditResult(cmd, app, opErr, nil)
			}
			st.Snapshot = next
			if err := saveState(s, st); err != nil {
				return writeErr(cmd, err)
			}
			affected, _ := next.Find(id) // zero node after delete; callers key off "data"
			return writeEditResult(cmd, app, nil, affected)
		},
	}
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <node-id> <text>",
		Short: "Replace a node's label (label edits are not undoable history entries)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			next, opErr := tree.SetText(st.Snapshot, args[0], args[1])
			if opErr != nil {
				return writeErr(cmd, opErr)
			}
			st.Snapshot = next
			if err := saveState(s, st); err != nil {
				return writeErr(cmd, err)
			}
			renamed, _ := next.Find(args[0])
			return writeOut(cmd, app, map[string]any{"data": renamed})
		},
	}
}
