package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/organic-growth/organic-growth/internal/cli/ui"
	"github.com/organic-growth/organic-growth/internal/contextsync"
	"github.com/organic-growth/organic-growth/internal/diff"
	"github.com/organic-growth/organic-growth/internal/watch"
)

type syncOptions struct {
	target   string
	watch    bool
	dryRun   bool
	debounce time.Duration
}

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the project context into every tool's instruction file",
		Long: `Copy docs/project-context.md into the tool instruction files.

Each target file carries a marker pair:

  <!-- BEGIN PROJECT CONTEXT ... -->
  ...replaced on every sync...
  <!-- END PROJECT CONTEXT -->

Only the text between the markers changes. Missing files and files
without markers are reported and left alone.

Examples:
  # Sync every target
  organic-growth sync

  # Sync one target
  organic-growth sync --target copilot

  # Show what would change without writing
  organic-growth sync --dry-run

  # Keep syncing while you edit (Ctrl+C to stop)
  organic-growth sync --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "Target to sync: claude, copilot, opencode or all (default from config, all)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-sync whenever the project context changes")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show the changes without writing them")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "Quiet period before a watched change is synced (default from config, 100ms)")

	cmd.RegisterFlagCompletionFunc("target", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := append(contextsync.TargetNames(contextsync.DefaultTargets()), contextsync.SelectAll)
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runSync(cmd *cobra.Command, opts *syncOptions) error {
	if opts.watch && opts.dryRun {
		return errors.New("--watch and --dry-run cannot be combined")
	}

	p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	defer p.close()

	syncer, err := contextsync.New(contextsync.Options{
		Root:   p.root,
		Source: p.config.Sync.Source,
		DryRun: opts.dryRun,
		Logger: p.logger,
	})
	if err != nil {
		return err
	}

	selector := opts.target
	if selector == "" {
		selector = p.config.Sync.Target
	}

	out := cmd.OutOrStdout()
	if !opts.watch {
		return syncOnce(out, syncer, selector, p)
	}

	debounce := opts.debounce
	if debounce <= 0 {
		debounce = p.config.Sync.Debounce
	}
	return syncWatch(cmd, syncer, selector, debounce, p)
}

// syncOnce runs a single pass and prints its report.
func syncOnce(out io.Writer, syncer *contextsync.Syncer, selector string, p *project) error {
	report, err := syncer.Run(selector)
	if report == nil {
		return err
	}
	printReport(out, report, p)
	if err != nil {
		return &reportedError{err: err}
	}
	return nil
}

// syncWatch runs the initial pass, then re-syncs on every debounced change
// of the source until interrupted.
func syncWatch(cmd *cobra.Command, syncer *contextsync.Syncer, selector string, debounce time.Duration, p *project) error {
	out := cmd.OutOrStdout()
	rel := p.config.Sync.Source

	// Resolve the selector up front so a typo fails before watching starts.
	if _, err := contextsync.Resolve(syncer.Targets(), selector); err != nil {
		return err
	}
	if _, err := os.Stat(syncer.SourcePath()); errors.Is(err, fs.ErrNotExist) {
		return &contextsync.SourceMissingError{Path: rel}
	}

	source, err := watch.NewFileSource(syncer.SourcePath())
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", rel, err)
	}

	passes := 0
	pass := func(ctx context.Context) error {
		if passes > 0 {
			fmt.Fprintf(out, "\n[%s] %s changed\n", time.Now().Format("15:04:05"), rel)
		}
		report, err := syncer.Run(selector)
		if report == nil {
			return err
		}
		printReport(out, report, p)
		passes++
		if passes == 1 {
			fmt.Fprintln(out)
			fmt.Fprint(out, ui.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", filepath.ToSlash(rel)), p.noColor))
		}
		// Target failures were printed; keep watching.
		return nil
	}

	controller := watch.NewController(source, pass, watch.Options{
		Debounce: debounce,
		Logger:   p.logger,
		OnPassError: func(err error) {
			fmt.Fprint(out, ui.Warning(fmt.Sprintf("Sync failed: %v", err), nil, p.noColor))
		},
	})

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if err := controller.Run(ctx); err != nil {
		return err
	}

	p.logger.Debug("watch stopped", zap.Int("passes", passes))
	color.New(color.FgGreen).Fprintln(out, "\nStopped watching.")
	return nil
}

// printReport prints one line per target, a summary and the placeholder
// advisory. Dry runs also print the diff of every target that would change.
func printReport(out io.Writer, report *contextsync.Report, p *project) {
	for _, res := range report.Results {
		rel := res.Target.Path
		message := res.Status.Message()
		outcome := ui.OutcomeUnchanged

		switch res.Status {
		case contextsync.StatusSynced:
			outcome = ui.OutcomeChanged
			if report.DryRun {
				message = "would sync"
			}
		case contextsync.StatusMissing, contextsync.StatusNoMarkers:
			outcome = ui.OutcomeSkipped
		}
		ui.WriteOutcome(out, outcome, res.Target.Name, rel, message, p.noColor)

		if report.DryRun && res.Status == contextsync.StatusSynced {
			printDiff(out, res, p)
		}
	}

	for _, f := range report.Failures {
		ui.WriteOutcome(out, ui.OutcomeFailed, f.Target.Name, f.Target.Path, f.Err.Error(), p.noColor)
	}

	n := report.Synced()
	if report.DryRun {
		fmt.Fprintf(out, "%d target(s) would be synced\n", n)
	} else if n > 0 {
		ui.WriteSuccess(out, fmt.Sprintf("%d target(s) synced", n), p.noColor)
	} else {
		fmt.Fprintf(out, "%d target(s) synced\n", n)
	}

	if report.Placeholders {
		fmt.Fprint(out, ui.Warning(
			fmt.Sprintf("%s still contains [placeholders]; fill them in so agents get real context", p.config.Sync.Source),
			nil, p.noColor))
	}
}

func printDiff(out io.Writer, res contextsync.Result, p *project) {
	d := diff.Compute(res.Previous, res.Updated)
	var (
		text string
		err  error
	)
	if p.noColor {
		text, err = d.Unified(res.Target.Path)
	} else {
		text, err = d.Colorize(res.Target.Path)
	}
	if err != nil {
		p.logger.Warn("diff failed", zap.String("target", res.Target.Name), zap.Error(err))
		return
	}
	fmt.Fprintf(out, "    %s\n", d.Stats())
	fmt.Fprint(out, text)
}
