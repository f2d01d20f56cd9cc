// Package stagecheck checks a freshly made stage commit: it runs the
// project's test command and gathers the diff for review.
package stagecheck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// TestOutputLines is how much of the test output is kept, from the end.
	TestOutputLines = 100
	// DiffLines is how much of the diff is kept, from the start.
	DiffLines = 300
)

var (
	stagePattern   = regexp.MustCompile(`(?i)stage\s+\d+`)
	testField      = regexp.MustCompile("\\*\\*Test:\\*\\*[^`]*`([^`]+)`")
	failurePattern = regexp.MustCompile(`# fail [1-9]|failing|not ok\b|FAIL\b|FAILED\b`)
	commitFormat   = regexp.MustCompile(`^feat\([^)]+\): stage \d+ [-—] .+`)
)

// InstructionFiles are searched in order for the **Test:** field.
var InstructionFiles = []string{"AGENTS.md", filepath.Join(".claude", "CLAUDE.md")}

// ExpectedFormat describes the stage commit subject convention.
const ExpectedFormat = "feat(scope): stage N — <what grew>"

// ReviewQuestions guide the self-review of a stage.
var ReviewQuestions = []string{
	"Does the code match the stage intent from the growth plan?",
	"Are all stage properties properly tested?",
	"Are properties from previous stages preserved?",
	"Any over-engineering, security concerns, or missed edge cases?",
}

// IsStageCommit reports whether a commit message names a stage.
func IsStageCommit(msg string) bool {
	return stagePattern.MatchString(msg)
}

// DiscoverTestCommand returns the backticked command following **Test:** in
// the first instruction file that has one. Placeholder values, which start
// with "[", are ignored. ok is false when no command is configured.
func DiscoverTestCommand(root string) (cmd string, ok bool, err error) {
	for _, rel := range InstructionFiles {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", false, fmt.Errorf("failed to read %s: %w", rel, err)
		}

		if cmd, ok := ParseTestCommand(string(data)); ok {
			return cmd, true, nil
		}
	}
	return "", false, nil
}

// ParseTestCommand extracts the **Test:** command from instruction text.
func ParseTestCommand(content string) (string, bool) {
	m := testField.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	cmd := strings.TrimSpace(m[1])
	if cmd == "" || strings.HasPrefix(cmd, "[") {
		return "", false
	}
	return cmd, true
}

// TestsFailed reports whether test output shows a failure. Only the last
// TestOutputLines lines are inspected.
func TestsFailed(output string) bool {
	return failurePattern.MatchString(TailLines(output, TestOutputLines))
}

// CheckCommitFormat reports whether a commit subject follows ExpectedFormat.
func CheckCommitFormat(subject string) bool {
	return commitFormat.MatchString(subject)
}

// TailLines returns the last n lines of s.
func TailLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// HeadLines returns the first n lines of s and whether anything was cut.
func HeadLines(s string, n int) (string, bool) {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s, false
	}
	return strings.Join(lines[:n], "\n"), true
}
