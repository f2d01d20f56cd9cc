package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/organic-growth/organic-growth/internal/contextsync"
)

func TestTargetsCommand(t *testing.T) {
	root := syncProject(t)

	out, _, err := run(t, context.Background(), root, "targets")
	require.NoError(t, err)

	assert.Contains(t, out, "Source: docs/project-context.md (found)")
	assert.Contains(t, out, "Target")
	assert.Contains(t, out, "claude    .claude/CLAUDE.md")
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "file not found")
	assert.Contains(t, out, "no sync markers found")
}

func TestTargetsCommand_SourceMissing(t *testing.T) {
	out, _, err := run(t, context.Background(), t.TempDir(), "targets")
	require.NoError(t, err)

	assert.Contains(t, out, "Source: docs/project-context.md (missing)")
}

func TestTargetState(t *testing.T) {
	root := t.TempDir()
	markers := contextsync.DefaultMarkers()

	writeProjectFile(t, root, "marked.md", markedDoc)
	writeProjectFile(t, root, "plain.md", "nothing\n")
	writeProjectFile(t, root, "reversed.md", "<!-- END PROJECT CONTEXT -->\n<!-- BEGIN PROJECT CONTEXT -->\n")

	tests := []struct {
		file string
		want string
	}{
		{"marked.md", "ready"},
		{"plain.md", "no sync markers found"},
		{"reversed.md", "no sync markers found"},
		{"absent.md", "file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := targetState(filepath.Join(root, tt.file), markers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
