// Package contextsync propagates the canonical project-context document into
// tool-specific instruction files.
//
// Each target document carries a BEGIN/END marker pair; on every pass the
// text between the markers is replaced with the source document while the
// rest of the target is left untouched. Targets are processed
// independently and there is no transaction across them: a pass can update
// one target and fail on the next.
package contextsync

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/organic-growth/organic-growth/internal/marker"
)

// Options configures a Syncer.
type Options struct {
	// Root is the project root. Required.
	Root string
	// Source is the project-context document relative to Root.
	// Defaults to DefaultSourcePath.
	Source string
	// Targets defaults to DefaultTargets.
	Targets []Target
	// Markers defaults to DefaultMarkers.
	Markers Markers
	// DryRun computes outcomes without writing any target.
	DryRun bool
	Logger *zap.Logger
}

// Syncer runs sync passes for one project.
type Syncer struct {
	root    string
	source  string
	targets []Target
	markers Markers
	dryRun  bool
	logger  *zap.Logger
}

// New creates a Syncer.
func New(opts Options) (*Syncer, error) {
	if opts.Root == "" {
		return nil, errors.New("project root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	s := &Syncer{
		root:    root,
		source:  opts.Source,
		targets: opts.Targets,
		markers: opts.Markers,
		dryRun:  opts.DryRun,
		logger:  opts.Logger,
	}
	if s.source == "" {
		s.source = DefaultSourcePath
	}
	if len(s.targets) == 0 {
		s.targets = DefaultTargets()
	}
	if s.markers == (Markers{}) {
		s.markers = DefaultMarkers()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s, nil
}

// Root returns the absolute project root.
func (s *Syncer) Root() string {
	return s.root
}

// SourcePath returns the absolute path of the project-context document.
func (s *Syncer) SourcePath() string {
	return abs(s.root, s.source)
}

// Targets returns the registered targets.
func (s *Syncer) Targets() []Target {
	out := make([]Target, len(s.targets))
	copy(out, s.targets)
	return out
}

// Run performs one sync pass over the targets matched by selector.
//
// A missing source document returns a *SourceMissingError before any target
// is touched. Missing targets and targets without markers are reported in
// the Report, not as errors. Unexpected I/O failures on individual targets
// do not stop the pass; they are collected in Report.Failures and returned
// joined together once every target has been processed.
func (s *Syncer) Run(selector string) (*Report, error) {
	targets, err := Resolve(s.targets, selector)
	if err != nil {
		return nil, err
	}

	sourcePath := s.SourcePath()
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceMissingError{Path: s.source}
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.source, err)
	}
	content := string(data)

	report := &Report{
		Source:       sourcePath,
		Placeholders: HasPlaceholders(content),
		DryRun:       s.dryRun,
	}

	var errs []error
	for _, target := range targets {
		result, err := s.syncTarget(target, content)
		if err != nil {
			terr := &TargetError{Target: target, Err: err}
			report.Failures = append(report.Failures, terr)
			errs = append(errs, terr)
			s.logger.Warn("target sync failed", zap.String("target", target.Name), zap.Error(err))
			continue
		}
		s.logger.Debug("target processed",
			zap.String("target", target.Name),
			zap.String("path", target.Path),
			zap.String("status", string(result.Status)))
		report.Results = append(report.Results, result)
	}

	return report, errors.Join(errs...)
}

func (s *Syncer) syncTarget(target Target, content string) (Result, error) {
	path := abs(s.root, target.Path)
	result := Result{Target: target, Path: path}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Status = StatusMissing
			return result, nil
		}
		return result, err
	}
	if info.IsDir() {
		return result, fmt.Errorf("%s is a directory", target.Path)
	}

	// Write through symlinks; renaming over the link would replace it.
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return result, fmt.Errorf("failed to resolve %s: %w", target.Path, err)
	}

	data, err := os.ReadFile(real)
	if err != nil {
		return result, err
	}
	doc := string(data)

	span, found := marker.Locate(doc, s.markers.Begin, s.markers.End)
	if !found {
		result.Status = StatusNoMarkers
		return result, nil
	}
	if strings.Contains(content, s.markers.End) {
		return result, fmt.Errorf("%w %q; remove it from %s", ErrSourceContainsMarker, s.markers.End, s.source)
	}

	updated, changed := marker.Splice(doc, span, content)
	if !changed {
		result.Status = StatusUnchanged
		return result, nil
	}

	result.Status = StatusSynced
	result.Previous = doc
	result.Updated = updated

	if s.dryRun {
		return result, nil
	}
	if err := writeFileAtomic(real, []byte(updated), info.Mode().Perm()); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", target.Path, err)
	}
	return result, nil
}

// writeFileAtomic writes data to path using a temp file in the same
// directory and a rename. On failure the original file is left unchanged.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".organic-growth-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
