package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"treeline/internal/outline"
	"treeline/internal/store"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the workspace tree with a parsed outline (stdin if no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var text []byte
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			st.Snapshot = outline.Parse(string(text), store.IDGenerator())
			st.SelectedID = ""
			if err := saveState(s, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"nodes": st.Snapshot.Len()}})
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the outline text to a file (stdout if no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			text := outline.Format(st.Snapshot)
			if len(args) == 1 {
				return os.WriteFile(args[0], []byte(text+"\n"), 0o644)
			}
			if text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
}

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a .treeline workspace in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return writeErr(cmd, err)
				}
				app.Dir = filepath.Join(cwd, ".treeline")
			}
			st, s, err := loadState(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveState(s, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"dir": s.Dir, "nodes": st.Snapshot.Len()}})
		},
	}
}
