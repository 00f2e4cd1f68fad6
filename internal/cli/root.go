package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"treeline/internal/format"
	"treeline/internal/store"
	"treeline/internal/tree"
	"treeline/internal/tui"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "treeline",
		Short:        "Treeline outline editor: CLI + TUI over one shared tree",
		SilenceUsage: true,
		Example: `  # Start the interactive TUI (outline + diagram views)
  treeline

  # Scriptable commands
  treeline show
  treeline add "New node" --after node-abc123de
  treeline move node-abc123de --first-child-of node-f00dcafe

  # Direct node lookup (shortcut for: treeline show <node-id>)
  treeline node-abc123de`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TREELINE_DIR", ""), "Path to workspace dir (default: nearest .treeline above the CWD)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TREELINE_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newIndentCmd(app))
	cmd.AddCommand(newOutdentCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	st, s, err := loadState(app)
	if err != nil {
		return err
	}
	return tui.Run(s, st)
}

func loadState(app *App) (store.State, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.State{}, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.Store{Dir: dir}
	st, err := s.Load(context.Background())
	if err != nil {
		return store.State{}, s, err
	}
	return st, s, nil
}

func saveState(s store.Store, st store.State) error {
	return s.Save(context.Background(), st)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// writeEditResult reports a mutating command's outcome. Structural no-ops are
// not command failures: the tree is untouched and the exit code stays zero, so
// scripts can probe with e.g. `treeline indent` without special-casing.
func writeEditResult(cmd *cobra.Command, app *App, err error, affected any) error {
	if errors.Is(err, tree.ErrNoOp) {
		return writeOut(cmd, app, map[string]any{"data": nil, "noop": true})
	}
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": affected})
}
