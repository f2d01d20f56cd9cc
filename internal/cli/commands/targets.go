package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/organic-growth/organic-growth/internal/cli/ui"
	"github.com/organic-growth/organic-growth/internal/contextsync"
	"github.com/organic-growth/organic-growth/internal/marker"
)

// NewTargetsCommand creates the targets command
func NewTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the sync targets and whether they can be synced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			out := cmd.OutOrStdout()
			markers := contextsync.DefaultMarkers()

			source := p.config.Sync.Source
			sourceState := "found"
			if _, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(source))); err != nil {
				sourceState = "missing"
			}
			fmt.Fprintf(out, "Source: %s (%s)\n\n", source, sourceState)

			table := ui.NewTable(out, []string{"Target", "Path", "State"}, &ui.TableOptions{NoColor: p.noColor})
			for _, t := range contextsync.DefaultTargets() {
				state, err := targetState(filepath.Join(p.root, filepath.FromSlash(t.Path)), markers)
				if err != nil {
					return err
				}
				table.AddRow(t.Name, t.Path, state)
			}
			table.Render()
			return nil
		},
	}
}

// targetState describes whether a target file can receive the context.
func targetState(path string, markers contextsync.Markers) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return contextsync.StatusMissing.Message(), nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if _, ok := marker.Locate(string(data), markers.Begin, markers.End); !ok {
		return contextsync.StatusNoMarkers.Message(), nil
	}
	return "ready", nil
}
