package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/organic-growth/organic-growth/internal/contextsync"
)

func TestInit_InstallsEverything(t *testing.T) {
	root := t.TempDir()

	out, _, err := run(t, context.Background(), root, "init")
	require.NoError(t, err)

	for _, rel := range []string{
		".claude/CLAUDE.md",
		".claude/commands/seed.md",
		".github/copilot-instructions.md",
		"AGENTS.md",
		"docs/project-context.md",
	} {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
	}
	assert.DirExists(t, filepath.Join(root, "docs", "growth"))

	assert.Contains(t, out, "Installed:")
	assert.Contains(t, out, "  AGENTS.md")
	assert.Contains(t, out, "Done! Next steps:")
	assert.Contains(t, out, "Run /seed to bootstrap a new project (interview mode)")
	assert.Contains(t, out, "/next:")
	assert.NotContains(t, out, "Skipped")
}

func TestInit_SkipsExistingFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "AGENTS.md", "my agents file\n")

	// Tests run without a terminal on stdin, so nothing prompts.
	out, _, err := run(t, context.Background(), root, "init", "--target", "opencode")
	require.NoError(t, err)

	assert.Contains(t, out, "Skipped (already exist):")
	assert.Contains(t, out, "  AGENTS.md")
	assert.Equal(t, "my agents file\n", readProjectFile(t, root, "AGENTS.md"))
	assert.NoFileExists(t, filepath.Join(root, ".claude", "CLAUDE.md"))
	assert.NotContains(t, out, "/seed", "slash commands are only listed for claude")
}

func TestInit_Force(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "AGENTS.md", "my agents file\n")

	_, _, err := run(t, context.Background(), root, "init", "--target", "opencode", "--force")
	require.NoError(t, err)

	assert.Contains(t, readProjectFile(t, root, "AGENTS.md"), "<!-- BEGIN PROJECT CONTEXT")
}

func TestInit_CopiesDNA(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "idea.md", "# Product DNA\n")

	out, _, err := run(t, context.Background(), root, "init", "idea.md")
	require.NoError(t, err)

	assert.Equal(t, "# Product DNA\n", readProjectFile(t, root, "docs/product-dna.md"))
	assert.Contains(t, out, "✓ Copied DNA document to docs/product-dna.md")
	assert.Contains(t, out, "Run /seed docs/product-dna.md to bootstrap from your DNA document")
}

func TestInit_MissingDNA(t *testing.T) {
	root := t.TempDir()

	out, _, err := run(t, context.Background(), root, "init", "missing.md")
	require.NoError(t, err)

	assert.Contains(t, out, "DNA file not found: missing.md")
	assert.NoFileExists(t, filepath.Join(root, "docs", "product-dna.md"))
}

func TestInit_UnknownTool(t *testing.T) {
	root := t.TempDir()

	_, _, err := run(t, context.Background(), root, "init", "--target", "cursor")

	var unknown *contextsync.UnknownTargetError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "cursor", unknown.Name)
	assert.Contains(t, unknown.Valid, "all")
	assert.NoFileExists(t, filepath.Join(root, "AGENTS.md"))
}

func TestInit_ThenSync(t *testing.T) {
	root := t.TempDir()

	_, _, err := run(t, context.Background(), root, "init")
	require.NoError(t, err)

	out, _, err := run(t, context.Background(), root, "sync")
	require.NoError(t, err)

	assert.Contains(t, out, "3 target(s) synced")
	assert.Contains(t, out, "still contains [placeholders]")

	source := readProjectFile(t, root, "docs/project-context.md")
	for _, rel := range []string{".claude/CLAUDE.md", ".github/copilot-instructions.md", "AGENTS.md"} {
		assert.Contains(t, readProjectFile(t, root, rel), source[:40], "%s not synced", rel)
	}
}
