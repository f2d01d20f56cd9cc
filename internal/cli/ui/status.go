package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Outcome classifies a per-item result line
type Outcome int

const (
	// OutcomeChanged marks an item that was written
	OutcomeChanged Outcome = iota
	// OutcomeUnchanged marks an item that needed no write
	OutcomeUnchanged
	// OutcomeSkipped marks an item left alone for a reason worth noticing
	OutcomeSkipped
	// OutcomeFailed marks an item that hit an error
	OutcomeFailed
)

// FormatOutcome renders one result line such as
//
//	✓ claude (.claude/CLAUDE.md): synced
func FormatOutcome(o Outcome, name, path, message string, noColor bool) string {
	var c *color.Color
	var symbol string

	switch o {
	case OutcomeChanged:
		c, symbol = color.New(color.FgGreen), "✓"
	case OutcomeUnchanged:
		c, symbol = color.New(color.FgHiBlack), "·"
	case OutcomeSkipped:
		c, symbol = color.New(color.FgYellow), "-"
	default:
		c, symbol = color.New(color.FgRed), "✗"
	}
	if noColor {
		c.DisableColor()
	}

	label := name
	if path != "" {
		label = fmt.Sprintf("%s (%s)", name, path)
	}
	return c.Sprintf("  %s %s: %s", symbol, label, message)
}

// WriteOutcome writes a result line to the writer
func WriteOutcome(w io.Writer, o Outcome, name, path, message string, noColor bool) {
	fmt.Fprintln(w, FormatOutcome(o, name, path, message, noColor))
}
