package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a lookup that found nothing acceptable. Non-fatal:
	// the album proceeds unidentified.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited marks a catalog request rejected for quota reasons.
	ErrRateLimited = errors.New("rate limited")
	// ErrTransient marks a recoverable network or I/O failure; the current
	// variant or candidate is skipped and processing continues.
	ErrTransient = errors.New("transient failure")
	// ErrMalformedRecord marks a catalog record missing required sub-fields.
	// Only the single candidate carrying it is skipped.
	ErrMalformedRecord = errors.New("malformed catalog record")
	// ErrConflict marks a filesystem target that already exists. Existing
	// data is never overwritten; the item is skipped and reported.
	ErrConflict      = errors.New("filesystem conflict")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the batch loop may continue past this error
// with the current item merely recorded as skipped.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrTransient),
		errors.Is(err, ErrMalformedRecord),
		errors.Is(err, ErrConflict):
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
