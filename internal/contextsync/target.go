package contextsync

import (
	"path/filepath"
	"strings"
)

// DefaultSourcePath is the canonical project-context document, relative to
// the project root.
const DefaultSourcePath = "docs/project-context.md"

// SelectAll selects every registered target.
const SelectAll = "all"

// Markers are the sentinel strings that bound the synchronized block in a
// target document. Begin matches as a prefix so the rest of its line can
// carry a note for human readers; End matches exactly.
type Markers struct {
	Begin string
	End   string
}

// DefaultMarkers returns the markers written by the bundled templates.
func DefaultMarkers() Markers {
	return Markers{
		Begin: "<!-- BEGIN PROJECT CONTEXT",
		End:   "<!-- END PROJECT CONTEXT -->",
	}
}

// Target is a named tool-specific document that receives the project
// context.
type Target struct {
	Name string
	// Path is relative to the project root, slash separated.
	Path string
}

// DefaultTargets returns the fixed target registry in sync order.
func DefaultTargets() []Target {
	return []Target{
		{Name: "claude", Path: ".claude/CLAUDE.md"},
		{Name: "copilot", Path: ".github/copilot-instructions.md"},
		{Name: "opencode", Path: "AGENTS.md"},
	}
}

// TargetNames returns the names of targets, in order.
func TargetNames(targets []Target) []string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	return names
}

// Resolve returns the targets matched by selector. An empty selector and
// SelectAll both select every target.
func Resolve(targets []Target, selector string) ([]Target, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || selector == SelectAll {
		out := make([]Target, len(targets))
		copy(out, targets)
		return out, nil
	}

	for _, t := range targets {
		if t.Name == selector {
			return []Target{t}, nil
		}
	}

	return nil, &UnknownTargetError{Name: selector, Valid: append(TargetNames(targets), SelectAll)}
}

// abs joins a slash-separated project path onto root.
func abs(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
