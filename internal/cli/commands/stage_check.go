package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/organic-growth/organic-growth/internal/cli/ui"
	"github.com/organic-growth/organic-growth/internal/stagecheck"
)

// newStageChecker builds the checker; replaced in tests.
var newStageChecker = func(p *project) *stagecheck.Checker {
	return stagecheck.NewChecker(p.root, stagecheck.ExecRunner{}, p.logger)
}

// NewStageCheckCommand creates the stage-check command
func NewStageCheckCommand() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "stage-check",
		Short: "Check the last commit when it completes a growth stage",
		Long: `Check the last commit when its message names a stage ("stage N").

For a stage commit this:
  • runs the test command from the **Test:** field of AGENTS.md
    (or .claude/CLAUDE.md)
  • prints the change summary and review questions
  • checks the subject against: feat(scope): stage N — <what grew>

Exits with status 1 when the tests fail. Meant for a post-commit hook:

  echo 'organic-growth stage-check' >> .git/hooks/post-commit
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			defer p.close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			checker := newStageChecker(p)
			errOut := cmd.ErrOrStderr()

			var report *stagecheck.Report
			run := func() error {
				var err error
				report, err = checker.Run(ctx)
				return err
			}
			if f, ok := errOut.(*os.File); ok && isTerminal(f) {
				err = ui.WithSpinner(errOut, "Checking last commit", p.noColor, run)
			} else {
				err = run()
			}
			if err != nil {
				return err
			}

			return printStageReport(cmd.OutOrStdout(), report, showDiff, p.noColor)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "Also print the first lines of the diff")

	return cmd
}

func printStageReport(out io.Writer, report *stagecheck.Report, showDiff, noColor bool) error {
	if !report.Stage {
		fmt.Fprint(out, ui.Info("Last commit is not a stage commit; nothing to check", noColor))
		return nil
	}

	ui.Header(out, "Stage check: "+report.Subject, noColor)

	// Tests
	var failed error
	switch {
	case report.TestCommand == "":
		fmt.Fprint(out, ui.Warning("No **Test:** command configured in AGENTS.md; tests were not run", nil, noColor))
	case report.TestsFailed:
		fmt.Fprint(out, ui.StageCheckError(report.Subject, report.TestCommand, noColor))
		fmt.Fprintf(out, "\nFix these failures before continuing to the next stage.\n")
		fmt.Fprintf(out, "Test output (last %d lines):\n%s\n", stagecheck.TestOutputLines, report.TestOutput)
		failed = &reportedError{err: fmt.Errorf("tests failed after %s", report.Subject)}
	default:
		ui.WriteSuccess(out, "All tests passed after: "+report.Subject, noColor)
	}

	// Review context
	if report.Review != nil {
		fmt.Fprintln(out)
		color.New(color.Bold).Fprintln(out, "Changes:")
		fmt.Fprint(out, report.Review.Stat)

		fmt.Fprintln(out)
		color.New(color.Bold).Fprintln(out, "Please review this stage:")
		questions := ui.NewList(out, ui.ListOptions{Numbered: true, NoColor: noColor})
		for _, q := range stagecheck.ReviewQuestions {
			questions.AddItem(q)
		}
		questions.Render()

		if showDiff {
			fmt.Fprintf(out, "\nDiff (first %d lines):\n%s\n", stagecheck.DiffLines, report.Review.Diff)
		}
	}

	// Commit format (advisory)
	if !report.FormatOK {
		fmt.Fprintln(out)
		fmt.Fprint(out, ui.Warning(fmt.Sprintf(
			"Commit format suggestion: the stage commit does not follow the expected convention.\n   Actual:   %s\n   Expected: %s",
			report.Subject, stagecheck.ExpectedFormat), nil, noColor))
	}

	return failed
}
