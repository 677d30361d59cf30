package services

import (
	"errors"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := errors.New("socket closed")
	err := Wrap(ErrTransient, "search", "query catalog", "variant lookup failed", base)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected wrapped error to match ErrTransient: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to match the cause: %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "tags", "save", "write failed", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("nil marker should default to ErrTransient: %v", err)
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		marker error
		want   bool
	}{
		{ErrNotFound, true},
		{ErrRateLimited, true},
		{ErrTransient, true},
		{ErrMalformedRecord, true},
		{ErrConflict, true},
		{ErrValidation, false},
		{ErrConfiguration, false},
	}
	for _, tc := range tests {
		err := Wrap(tc.marker, "stage", "op", "msg", nil)
		if got := Recoverable(err); got != tc.want {
			t.Errorf("Recoverable(%v) = %v, want %v", tc.marker, got, tc.want)
		}
	}
}
