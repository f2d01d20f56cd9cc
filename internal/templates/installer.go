package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Prompter asks whether an existing file may be overwritten.
type Prompter interface {
	ConfirmOverwrite(rel string) (bool, error)
}

// InstallOptions configures one installation.
type InstallOptions struct {
	// Root is the project root. Required.
	Root string
	// Tool selects a tool set by name; "" or "all" installs every set.
	Tool string
	// Force overwrites existing files without prompting.
	Force bool
	// DNA is an optional product DNA document, relative to Root or
	// absolute, copied into the manifest's DNA target.
	DNA string
	// Prompter is consulted for existing files unless Force is set. Without
	// a Prompter existing files are skipped.
	Prompter Prompter
}

// InstallResult reports what an installation did. Paths are slash
// separated and relative to the project root.
type InstallResult struct {
	Tools      []*ToolSet
	Created    []string
	Skipped    []string
	DNACopied  bool
	DNAMissing bool
}

// Installer copies template files into a project.
type Installer struct {
	manifest *Manifest
	registry *Registry
	files    fs.FS
	logger   *zap.Logger
}

// NewInstaller creates an installer over a template tree. A nil logger is
// replaced with a no-op logger.
func NewInstaller(manifest *Manifest, files fs.FS, logger *zap.Logger) (*Installer, error) {
	registry, err := NewRegistryFromManifest(manifest)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{
		manifest: manifest,
		registry: registry,
		files:    files,
		logger:   logger,
	}, nil
}

// NewDefaultInstaller creates an installer over the embedded templates.
func NewDefaultInstaller(logger *zap.Logger) (*Installer, error) {
	manifest, err := LoadManifest()
	if err != nil {
		return nil, err
	}
	return NewInstaller(manifest, Files(), logger)
}

// Registry returns the tool sets known to the installer.
func (i *Installer) Registry() *Registry {
	return i.registry
}

// Manifest returns the installer's manifest.
func (i *Installer) Manifest() *Manifest {
	return i.manifest
}

// Install copies the selected tool sets, the shared project-context
// document and the growth directory into opts.Root.
func (i *Installer) Install(opts InstallOptions) (*InstallResult, error) {
	if opts.Root == "" {
		return nil, errors.New("project root is required")
	}
	if opts.DNA != "" && i.manifest.DNATarget == "" {
		return nil, errors.New("template manifest has no DNA target")
	}

	tools, err := i.registry.Select(opts.Tool)
	if err != nil {
		return nil, err
	}

	files, err := i.selectFiles(tools)
	if err != nil {
		return nil, err
	}

	result := &InstallResult{Tools: tools}

	// The project context is shared by every tool and always installed.
	if _, err := fs.Stat(i.files, i.manifest.Context); err == nil {
		files = append(files, i.manifest.Context)
	}

	for _, rel := range files {
		written, err := i.installFile(opts, rel)
		if err != nil {
			return result, err
		}
		if written {
			result.Created = append(result.Created, rel)
		} else {
			result.Skipped = append(result.Skipped, rel)
		}
	}

	// Create growth directory
	if i.manifest.GrowthDir != "" {
		growthDir := filepath.Join(opts.Root, filepath.FromSlash(i.manifest.GrowthDir))
		if _, err := os.Stat(growthDir); errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(growthDir, 0755); err != nil {
				return result, fmt.Errorf("failed to create %s: %w", i.manifest.GrowthDir, err)
			}
			result.Created = append(result.Created, i.manifest.GrowthDir+"/")
		}
	}

	if opts.DNA != "" {
		copied, err := i.copyDNA(opts)
		if err != nil {
			return result, err
		}
		result.DNACopied = copied
		result.DNAMissing = !copied
	}

	return result, nil
}

// selectFiles lists the template files owned by tools, sorted.
func (i *Installer) selectFiles(tools []*ToolSet) ([]string, error) {
	var files []string
	err := fs.WalkDir(i.files, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, t := range tools {
			if t.Matches(rel) {
				files = append(files, rel)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// installFile copies one template file, honoring Force and the prompter.
// It reports whether the file was written.
func (i *Installer) installFile(opts InstallOptions, rel string) (bool, error) {
	dest := filepath.Join(opts.Root, filepath.FromSlash(rel))

	if _, err := os.Stat(dest); err == nil && !opts.Force {
		if opts.Prompter == nil {
			i.logger.Debug("existing file kept", zap.String("path", rel))
			return false, nil
		}
		overwrite, err := opts.Prompter.ConfirmOverwrite(rel)
		if err != nil {
			return false, fmt.Errorf("failed to confirm overwrite of %s: %w", rel, err)
		}
		if !overwrite {
			return false, nil
		}
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to inspect %s: %w", rel, err)
	}

	data, err := fs.ReadFile(i.files, rel)
	if err != nil {
		return false, fmt.Errorf("failed to read template %s: %w", rel, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write file %s: %w", rel, err)
	}

	i.logger.Debug("template installed", zap.String("path", rel))
	return true, nil
}

// copyDNA copies the DNA document; false means the source does not exist.
func (i *Installer) copyDNA(opts InstallOptions) (bool, error) {
	src := opts.DNA
	if !filepath.IsAbs(src) {
		src = filepath.Join(opts.Root, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read DNA document %s: %w", opts.DNA, err)
	}

	dest := filepath.Join(opts.Root, filepath.FromSlash(i.manifest.DNATarget))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent directory for %s: %w", i.manifest.DNATarget, err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", i.manifest.DNATarget, err)
	}
	return true, nil
}
