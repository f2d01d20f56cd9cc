package contextsync

// Status classifies the outcome of syncing one target.
type Status string

const (
	// StatusSynced means the body was replaced and the content changed.
	StatusSynced Status = "synced"
	// StatusUnchanged means the target already held the current content.
	StatusUnchanged Status = "unchanged"
	// StatusMissing means the target file does not exist.
	StatusMissing Status = "missing"
	// StatusNoMarkers means the target exists but has no usable marker pair.
	StatusNoMarkers Status = "no-markers"
)

// Message returns the human-readable status line fragment.
func (s Status) Message() string {
	switch s {
	case StatusSynced:
		return "synced"
	case StatusUnchanged:
		return "already up to date"
	case StatusMissing:
		return "file not found"
	case StatusNoMarkers:
		return "no sync markers found"
	default:
		return string(s)
	}
}

// Result is the outcome for one target.
type Result struct {
	Target Target
	// Path is the absolute path of the target document.
	Path   string
	Status Status
	// Previous and Updated hold the document before and after splicing.
	// They are only set for StatusSynced.
	Previous string
	Updated  string
}

// Report summarizes a sync pass.
type Report struct {
	// Source is the absolute path of the project-context document.
	Source string
	// Placeholders is set when the source still contains bracketed
	// fill-in instructions.
	Placeholders bool
	// DryRun is set when no target was written.
	DryRun   bool
	Results  []Result
	Failures []*TargetError
}

// Count returns the number of results with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Synced returns the number of targets whose content changed.
func (r *Report) Synced() int {
	return r.Count(StatusSynced)
}
