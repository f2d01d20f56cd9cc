// Package diff renders the difference between a target file's current and
// synced content.
package diff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 2

// Result represents the difference between original and updated content
type Result struct {
	Original string
	Updated  string
	Changed  bool
}

// Compute compares original and updated content
func Compute(original, updated string) *Result {
	return &Result{
		Original: original,
		Updated:  updated,
		Changed:  original != updated,
	}
}

// Unified returns a unified diff of the change labelled with filename, or
// "" when nothing changed.
func (r *Result) Unified(filename string) (string, error) {
	if !r.Changed {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.Original),
		B:        difflib.SplitLines(r.Updated),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  contextLines,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", filename, err)
	}
	return out, nil
}

// Colorize returns the unified diff with color highlighting
func (r *Result) Colorize(filename string) (string, error) {
	unified, err := r.Unified(filename)
	if err != nil || unified == "" {
		return unified, err
	}

	var buf bytes.Buffer

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	bold := color.New(color.Bold)

	for _, line := range strings.SplitAfter(unified, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			bold.Fprint(&buf, line)
		case strings.HasPrefix(line, "@@"):
			cyan.Fprint(&buf, line)
		case strings.HasPrefix(line, "-"):
			red.Fprint(&buf, line)
		case strings.HasPrefix(line, "+"):
			green.Fprint(&buf, line)
		default:
			buf.WriteString(line)
		}
	}

	return buf.String(), nil
}

// Stats returns statistics about the changes
func (r *Result) Stats() string {
	if !r.Changed {
		return "No changes"
	}

	matcher := difflib.NewMatcher(difflib.SplitLines(r.Original), difflib.SplitLines(r.Updated))

	added := 0
	removed := 0
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'i':
			added += op.J2 - op.J1
		case 'd':
			removed += op.I2 - op.I1
		case 'r':
			added += op.J2 - op.J1
			removed += op.I2 - op.I1
		}
	}

	return fmt.Sprintf("%d lines added, %d removed", added, removed)
}
