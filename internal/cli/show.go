package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"treeline/internal/outline"
	"treeline/internal/tree"
)

func newShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [node-id]",
		Short: "Print the outline (whole forest, or one node's subtree)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			if asJSON {
				nodes := tree.FlattenedOrder(st.Snapshot)
				if len(args) == 1 {
					id := args[0]
					if _, ok := st.Snapshot.Find(id); !ok {
						return writeErr(cmd, tree.NotFoundError{ID: id})
					}
					keep := tree.DescendantIDs(st.Snapshot, id)
					keep[id] = true
					filtered := nodes[:0:0]
					for _, n := range nodes {
						if keep[n.ID] {
							filtered = append(filtered, n)
						}
					}
					nodes = filtered
				}
				return writeOut(cmd, app, map[string]any{"data": nodes})
			}

			text := outline.Format(st.Snapshot)
			if len(args) == 1 {
				text, err = subtreeText(st.Snapshot, args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			if text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print nodes as JSON instead of outline text")
	return cmd
}

// subtreeText renders one node and its descendants as outline text, indented
// relative to the subtree root.
func subtreeText(s tree.Snapshot, rootID string) (string, error) {
	root, ok := s.Find(rootID)
	if !ok || root.ParentID == nil {
		return "", tree.NotFoundError{ID: rootID}
	}
	base := tree.Depth(s, rootID)
	keep := tree.DescendantIDs(s, rootID)

	var b strings.Builder
	b.WriteString(root.Text)
	for _, n := range tree.FlattenedOrder(s) {
		if !keep[n.ID] {
			continue
		}
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", tree.Depth(s, n.ID)-base))
		b.WriteString(n.Text)
	}
	return b.String(), nil
}
