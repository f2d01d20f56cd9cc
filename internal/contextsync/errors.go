package contextsync

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSourceMissing is returned when the canonical project-context document
// does not exist. It is the only condition that fails a sync outright.
var ErrSourceMissing = errors.New("project context document not found")

// ErrSourceContainsMarker is reported for every marked target when the
// source document itself contains the END marker. Splicing it would end the
// block early on the next pass and duplicate the rest of the target.
var ErrSourceContainsMarker = errors.New("project context document contains the END marker")

// SourceMissingError names the missing source document.
type SourceMissingError struct {
	Path string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSourceMissing, e.Path)
}

// Unwrap lets errors.Is match ErrSourceMissing.
func (e *SourceMissingError) Unwrap() error {
	return ErrSourceMissing
}

// UnknownTargetError is returned for a target selector that names no
// registered target.
type UnknownTargetError struct {
	Name  string
	Valid []string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q (valid: %s)", e.Name, strings.Join(e.Valid, ", "))
}

// TargetError records a failure on a single target: an unexpected I/O
// error, or a source that cannot be spliced safely.
type TargetError struct {
	Target Target
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("target %s (%s): %v", e.Target.Name, e.Target.Path, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}
