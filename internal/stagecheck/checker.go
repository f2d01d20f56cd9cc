package stagecheck

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Review is the diff context gathered for a stage commit.
type Review struct {
	Stat      string
	Diff      string
	Truncated bool
}

// Report is the outcome of checking the last commit.
type Report struct {
	// Stage is false when the last commit is not a stage commit; nothing
	// else is filled in then.
	Stage   bool
	Subject string

	// TestCommand is "" when the project does not configure one.
	TestCommand string
	TestsFailed bool
	TestOutput  string

	// Review is nil when the diff is unavailable, e.g. on a root commit.
	Review *Review

	FormatOK bool
}

// Checker inspects the last commit of a repository.
type Checker struct {
	root   string
	runner Runner
	logger *zap.Logger
}

// NewChecker creates a checker for the repository at root. A nil runner
// runs real commands; a nil logger discards diagnostics.
func NewChecker(root string, runner Runner, logger *zap.Logger) *Checker {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{root: root, runner: runner, logger: logger}
}

// Run checks the last commit. Tests and diff collection run concurrently.
// Failing tests are reported, not returned as an error.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	msg, err := c.git(ctx, "log", "-1", "--pretty=%B")
	if err != nil {
		return nil, fmt.Errorf("failed to read last commit: %w", err)
	}

	report := &Report{}
	if !IsStageCommit(msg) {
		c.logger.Debug("not a stage commit", zap.String("message", strings.TrimSpace(msg)))
		return report, nil
	}
	report.Stage = true

	subject, err := c.git(ctx, "log", "-1", "--pretty=%s")
	if err != nil {
		c.logger.Debug("commit subject unavailable", zap.Error(err))
		subject = "unknown stage"
	}
	report.Subject = strings.TrimSpace(subject)
	report.FormatOK = CheckCommitFormat(report.Subject)

	cmd, ok, err := DiscoverTestCommand(c.root)
	if err != nil {
		return nil, err
	}
	report.TestCommand = cmd

	g, gctx := errgroup.WithContext(ctx)

	if ok {
		g.Go(func() error {
			res, err := c.runner.Run(gctx, c.root, "sh", "-c", cmd)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// The command could not start; report its error as output.
				res.Stderr += err.Error()
				res.ExitCode = -1
			}
			report.TestOutput = TailLines(res.Output(), TestOutputLines)
			report.TestsFailed = res.ExitCode != 0 || TestsFailed(res.Output())
			c.logger.Debug("tests finished",
				zap.String("command", cmd),
				zap.Int("exit_code", res.ExitCode),
				zap.Bool("failed", report.TestsFailed))
			return nil
		})
	}

	g.Go(func() error {
		review, err := c.review(gctx)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			c.logger.Debug("review context unavailable", zap.Error(err))
			return nil
		}
		report.Review = review
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Checker) review(ctx context.Context) (*Review, error) {
	stat, err := c.git(ctx, "diff", "HEAD~1", "--stat")
	if err != nil {
		return nil, err
	}
	raw, err := c.git(ctx, "diff", "HEAD~1")
	if err != nil {
		return nil, err
	}
	diff, truncated := HeadLines(raw, DiffLines)
	return &Review{Stat: stat, Diff: diff, Truncated: truncated}, nil
}

// git runs a git command in the repository and returns its stdout.
func (c *Checker) git(ctx context.Context, args ...string) (string, error) {
	res, err := c.runner.Run(ctx, c.root, "git", append([]string{"-C", c.root}, args...)...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("git %s: exit status %d: %s", args[0], res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}
