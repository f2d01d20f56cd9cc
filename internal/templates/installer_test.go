package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers overwrite prompts from a map and records them.
type scriptedPrompter struct {
	answers map[string]bool
	err     error
	asked   []string
}

func (p *scriptedPrompter) ConfirmOverwrite(rel string) (bool, error) {
	p.asked = append(p.asked, rel)
	if p.err != nil {
		return false, p.err
	}
	return p.answers[rel], nil
}

func testInstaller(t *testing.T) *Installer {
	t.Helper()
	manifest := &Manifest{
		Context:   "docs/project-context.md",
		GrowthDir: "docs/growth",
		DNATarget: "docs/product-dna.md",
		Tools: []*ToolSet{
			{Name: "claude", Prefixes: []string{".claude/"}},
			{Name: "copilot", Prefixes: []string{".github/copilot-instructions.md"}},
		},
	}
	files := fstest.MapFS{
		".claude/CLAUDE.md":               {Data: []byte("claude")},
		".claude/commands/seed.md":        {Data: []byte("seed")},
		".github/copilot-instructions.md": {Data: []byte("copilot")},
		".github/workflows/ci.yml":        {Data: []byte("not installed")},
		"docs/project-context.md":         {Data: []byte("context")},
	}
	inst, err := NewInstaller(manifest, files, nil)
	require.NoError(t, err)
	return inst
}

func readRel(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func writeRel(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestInstall_AllTools(t *testing.T) {
	root := t.TempDir()
	result, err := testInstaller(t).Install(InstallOptions{Root: root})
	require.NoError(t, err)

	assert.Equal(t, []string{
		".claude/CLAUDE.md",
		".claude/commands/seed.md",
		".github/copilot-instructions.md",
		"docs/project-context.md",
		"docs/growth/",
	}, result.Created)
	assert.Empty(t, result.Skipped)
	assert.Len(t, result.Tools, 2)

	assert.Equal(t, "claude", readRel(t, root, ".claude/CLAUDE.md"))
	assert.Equal(t, "context", readRel(t, root, "docs/project-context.md"))
	assert.DirExists(t, filepath.Join(root, "docs", "growth"))
	assert.NoFileExists(t, filepath.Join(root, ".github", "workflows", "ci.yml"))
}

func TestInstall_SingleTool(t *testing.T) {
	root := t.TempDir()
	result, err := testInstaller(t).Install(InstallOptions{Root: root, Tool: "copilot"})
	require.NoError(t, err)

	assert.Contains(t, result.Created, ".github/copilot-instructions.md")
	assert.Contains(t, result.Created, "docs/project-context.md", "context is installed for every tool")
	assert.NoFileExists(t, filepath.Join(root, ".claude", "CLAUDE.md"))
}

func TestInstall_UnknownTool(t *testing.T) {
	_, err := testInstaller(t).Install(InstallOptions{Root: t.TempDir(), Tool: "cursor"})
	assert.Error(t, err)
}

func TestInstall_ExistingFilesSkippedWithoutPrompter(t *testing.T) {
	root := t.TempDir()
	writeRel(t, root, ".claude/CLAUDE.md", "mine")
	writeRel(t, root, "docs/project-context.md", "my context")

	result, err := testInstaller(t).Install(InstallOptions{Root: root, Tool: "claude"})
	require.NoError(t, err)

	assert.Equal(t, []string{".claude/CLAUDE.md", "docs/project-context.md"}, result.Skipped)
	assert.Equal(t, "mine", readRel(t, root, ".claude/CLAUDE.md"))
	assert.Equal(t, "my context", readRel(t, root, "docs/project-context.md"))
}

func TestInstall_PromptsForExistingFiles(t *testing.T) {
	root := t.TempDir()
	writeRel(t, root, ".claude/CLAUDE.md", "mine")
	writeRel(t, root, ".claude/commands/seed.md", "my seed")

	prompter := &scriptedPrompter{answers: map[string]bool{".claude/CLAUDE.md": true}}
	result, err := testInstaller(t).Install(InstallOptions{Root: root, Tool: "claude", Prompter: prompter})
	require.NoError(t, err)

	assert.Equal(t, []string{".claude/CLAUDE.md", ".claude/commands/seed.md"}, prompter.asked)
	assert.Contains(t, result.Created, ".claude/CLAUDE.md")
	assert.Contains(t, result.Skipped, ".claude/commands/seed.md")
	assert.Equal(t, "claude", readRel(t, root, ".claude/CLAUDE.md"))
	assert.Equal(t, "my seed", readRel(t, root, ".claude/commands/seed.md"))
}

func TestInstall_PromptError(t *testing.T) {
	root := t.TempDir()
	writeRel(t, root, ".claude/CLAUDE.md", "mine")

	prompter := &scriptedPrompter{err: errors.New("interrupt")}
	_, err := testInstaller(t).Install(InstallOptions{Root: root, Tool: "claude", Prompter: prompter})
	assert.ErrorContains(t, err, "interrupt")
}

func TestInstall_ForceOverwrites(t *testing.T) {
	root := t.TempDir()
	writeRel(t, root, ".claude/CLAUDE.md", "mine")

	prompter := &scriptedPrompter{}
	result, err := testInstaller(t).Install(InstallOptions{Root: root, Force: true, Prompter: prompter})
	require.NoError(t, err)

	assert.Empty(t, prompter.asked)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, "claude", readRel(t, root, ".claude/CLAUDE.md"))
}

func TestInstall_GrowthDirReportedOnce(t *testing.T) {
	root := t.TempDir()
	inst := testInstaller(t)

	_, err := inst.Install(InstallOptions{Root: root})
	require.NoError(t, err)

	result, err := inst.Install(InstallOptions{Root: root})
	require.NoError(t, err)
	assert.NotContains(t, result.Created, "docs/growth/")
}

func TestInstall_CopiesDNA(t *testing.T) {
	root := t.TempDir()
	writeRel(t, root, "idea.md", "# Product DNA")

	result, err := testInstaller(t).Install(InstallOptions{Root: root, DNA: "idea.md"})
	require.NoError(t, err)

	assert.True(t, result.DNACopied)
	assert.False(t, result.DNAMissing)
	assert.Equal(t, "# Product DNA", readRel(t, root, "docs/product-dna.md"))
}

func TestInstall_MissingDNA(t *testing.T) {
	root := t.TempDir()

	result, err := testInstaller(t).Install(InstallOptions{Root: root, DNA: "nope.md"})
	require.NoError(t, err)

	assert.False(t, result.DNACopied)
	assert.True(t, result.DNAMissing)
	assert.NoFileExists(t, filepath.Join(root, "docs", "product-dna.md"))
}

func TestInstall_RequiresRoot(t *testing.T) {
	_, err := testInstaller(t).Install(InstallOptions{})
	assert.Error(t, err)
}

func TestDefaultInstaller(t *testing.T) {
	inst, err := NewDefaultInstaller(nil)
	require.NoError(t, err)

	root := t.TempDir()
	result, err := inst.Install(InstallOptions{Root: root})
	require.NoError(t, err)

	assert.Contains(t, result.Created, ".claude/CLAUDE.md")
	assert.Contains(t, result.Created, ".claude/commands/next.md")
	assert.Contains(t, result.Created, ".github/copilot-instructions.md")
	assert.Contains(t, result.Created, "AGENTS.md")
	assert.Contains(t, result.Created, "docs/project-context.md")
	assert.Equal(t, []string{"claude", "copilot", "opencode"}, inst.Registry().Names())
}
