package stagecheck

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CmdResult holds the output of one command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout followed by stderr.
func (r CmdResult) Output() string {
	return r.Stdout + r.Stderr
}

// Runner runs external commands. A process that exits non-zero is reported
// through ExitCode with a nil error; the error is reserved for failures to
// run at all (binary not found, context cancelled).
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (CmdResult, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// Run executes the command in dir and captures its output.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (CmdResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CmdResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, err
}
