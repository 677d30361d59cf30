package workflow

import (
	"errors"

	"platter/internal/services"
)

// Status tracks how far an album has moved through the pipeline.
type Status string

const (
	StatusRipped     Status = "ripped"
	StatusIdentified Status = "identified"
	StatusTagged     Status = "tagged"
	StatusOrganized  Status = "organized"
	StatusPersisted  Status = "persisted"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// Terminal reports whether a run can no longer advance.
func (s Status) Terminal() bool {
	switch s {
	case StatusPersisted, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// FailureStatus maps a pipeline error to the status recorded for the
// run. Lookups that found nothing and filesystem conflicts leave the
// album skippable; everything else is a failure.
func FailureStatus(err error) Status {
	if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrConflict) {
		return StatusSkipped
	}
	return StatusFailed
}
