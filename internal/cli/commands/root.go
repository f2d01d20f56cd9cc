package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/organic-growth/organic-growth/internal/cli/ui"
	"github.com/organic-growth/organic-growth/internal/contextsync"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// exitFunc terminates the process; replaced in tests.
var exitFunc = os.Exit

// reportedError marks a failure whose details a command already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "organic-growth",
		Short: "Install growth methodology templates and keep project context in sync",
		Long: color.CyanString(`Organic Growth - setup for incremental development

Installs agent instructions and slash commands into a repository and keeps
the canonical project context (docs/project-context.md) synchronized into
every tool's instruction file.

Tools:
  • claude    .claude/CLAUDE.md and slash commands
  • copilot   .github/copilot-instructions.md
  • opencode  AGENTS.md`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("dir", "C", "", "Project root (default: nearest directory with docs/project-context.md or .git)")
	flags.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	flags.Bool("no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewTargetsCommand())
	rootCmd.AddCommand(NewStageCheckCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the organic-growth version, Git commit, build date, and Go version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			table := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			table.AddRow("organic-growth version", Version)
			table.AddRow("Git commit", GitCommit)
			table.AddRow("Build date", BuildDate)
			table.AddRow("Go version", goVer)
			table.Render()
		},
	}
}

// Execute runs the root command and reports any error on stderr. The
// caller decides the exit code.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// reportError prints err in the standard error layout, with did-you-mean
// hints for unknown target names.
func reportError(w io.Writer, err error) {
	noColor := color.NoColor

	var (
		reported *reportedError
		missing  *contextsync.SourceMissingError
		unknown  *contextsync.UnknownTargetError
		cfgErr   *configError
	)

	switch {
	case errors.As(err, &reported):
		// Already printed by the command
	case errors.As(err, &missing):
		fmt.Fprint(w, ui.SourceMissingError(missing.Path, noColor))
	case errors.As(err, &unknown):
		suggestions := ui.SuggestNames(unknown.Name, unknown.Valid, nil)
		fmt.Fprint(w, ui.UnknownTargetError(unknown.Name, suggestions, noColor))
	case errors.As(err, &cfgErr):
		fmt.Fprint(w, ui.ConfigError(cfgErr.Error(), nil, noColor))
	default:
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(w, "Error: %v\n", err)
	}
}
