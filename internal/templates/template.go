// Package templates holds the methodology files installed into a project
// and the installer that copies them.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed all:files
var embedded embed.FS

//go:embed manifest.yaml
var manifestData []byte

// Files returns the embedded template tree rooted at the project root.
func Files() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// files/ is embedded at build time; a failure here is a build defect.
		panic(fmt.Sprintf("templates: embedded tree missing: %v", err))
	}
	return sub
}

// Manifest describes the embedded template tree.
type Manifest struct {
	// Context is the shared project-context document.
	Context string `yaml:"context"`
	// GrowthDir is created for growth plans.
	GrowthDir string `yaml:"growth_dir"`
	// DNATarget receives an optional product DNA document.
	DNATarget string     `yaml:"dna_target"`
	Tools     []*ToolSet `yaml:"tools"`
}

// ToolSet is the group of template files installed for one AI tool.
type ToolSet struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Prefixes    []string `yaml:"prefixes"`
	// NextSteps are text/template strings rendered with StepContext.
	NextSteps []string `yaml:"next_steps"`
}

// StepContext is the data available to next-step templates.
type StepContext struct {
	Context   string
	DNA       string
	DNATarget string
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse template manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest returns the embedded manifest.
func LoadManifest() (*Manifest, error) {
	return ParseManifest(manifestData)
}

// Validate validates a manifest structure
func (m *Manifest) Validate() error {
	if m.Context == "" {
		return fmt.Errorf("manifest context path is required")
	}
	for _, p := range []string{m.Context, m.GrowthDir, m.DNATarget} {
		if p == "" {
			continue
		}
		if err := validateRelPath(p); err != nil {
			return err
		}
	}
	if len(m.Tools) == 0 {
		return fmt.Errorf("manifest must define at least one tool")
	}
	for _, t := range m.Tools {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates a tool set
func (t *ToolSet) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Name == "all" {
		return fmt.Errorf("tool name %q is reserved", t.Name)
	}
	if len(t.Prefixes) == 0 {
		return fmt.Errorf("tool %s must have at least one path prefix", t.Name)
	}
	for _, p := range t.Prefixes {
		if err := validateRelPath(p); err != nil {
			return fmt.Errorf("tool %s: %w", t.Name, err)
		}
	}
	for _, step := range t.NextSteps {
		if _, err := template.New("").Parse(step); err != nil {
			return fmt.Errorf("tool %s: invalid next step %q: %w", t.Name, step, err)
		}
	}
	return nil
}

// Matches reports whether a slash-separated template path belongs to the
// tool set.
func (t *ToolSet) Matches(rel string) bool {
	for _, p := range t.Prefixes {
		if strings.HasSuffix(p, "/") {
			if strings.HasPrefix(rel, p) {
				return true
			}
			continue
		}
		if rel == p {
			return true
		}
	}
	return false
}

// RenderNextSteps renders the tool's next-step hints.
func (t *ToolSet) RenderNextSteps(ctx StepContext) ([]string, error) {
	steps := make([]string, 0, len(t.NextSteps))
	for _, step := range t.NextSteps {
		out, err := renderString(step, ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to render next step for %s: %w", t.Name, err)
		}
		steps = append(steps, out)
	}
	return steps, nil
}

// renderString renders a template string with the given context
func renderString(tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateRelPath rejects absolute paths and paths that climb out of the
// project root.
func validateRelPath(p string) error {
	clean := path.Clean(p)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("invalid path %q: must stay inside the project", p)
	}
	return nil
}
