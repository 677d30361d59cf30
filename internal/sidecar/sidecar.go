package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"platter/internal/media"
	"platter/internal/services"
)

// FileName is the sidecar document's name inside an album directory.
const FileName = "rip_info.json"

// BackupSuffix is appended when a correction replaces the document.
const BackupSuffix = ".backup"

const stageSidecar = "sidecar"

// correctionTool names this pipeline in correction provenance.
const correctionTool = "platter"

// Record is the persistent state of one ripped album. It is the sole
// authoritative state across runs and is rewritten wholesale on every
// save.
type Record struct {
	Metadata     *media.Release `json:"metadata,omitempty"`
	RipDate      time.Time      `json:"rip_date"`
	TracksRipped int            `json:"tracks_ripped"`
	TotalTracks  int            `json:"total_tracks"`
	CoverArt     string         `json:"cover_art,omitempty"`
	Device       string         `json:"device,omitempty"`
	// CatalogNumber is the operator-entered number, kept even when
	// identification later settles on a different printed form.
	CatalogNumber  string    `json:"catalog_number,omitempty"`
	Method         string    `json:"method,omitempty"`
	CorrectionDate time.Time `json:"correction_date,omitzero"`
	CorrectionTool string    `json:"correction_tool,omitempty"`
}

// Path returns the sidecar location for an album directory.
func Path(albumDir string) string {
	return filepath.Join(albumDir, FileName)
}

// Exists reports whether an album directory carries a sidecar.
func Exists(albumDir string) bool {
	_, err := os.Stat(Path(albumDir))
	return err == nil
}

// Load reads and validates the sidecar of an album directory.
func Load(albumDir string) (*Record, error) {
	data, err := os.ReadFile(Path(albumDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrNotFound, stageSidecar, "load",
			fmt.Sprintf("no %s in %s", FileName, albumDir), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageSidecar, "load", "read sidecar", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, services.Wrap(services.ErrMalformedRecord, stageSidecar, "load",
			fmt.Sprintf("parse %s", Path(albumDir)), err)
	}
	if rec.TotalTracks <= 0 {
		return nil, services.Wrap(services.ErrMalformedRecord, stageSidecar, "load",
			"sidecar has no track count", nil)
	}
	return &rec, nil
}

// Save writes the record atomically: the document is written to a
// temporary file in the same directory and renamed over the target.
func Save(albumDir string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, stageSidecar, "save", "encode sidecar", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(albumDir, FileName+".tmp*")
	if err != nil {
		return services.Wrap(services.ErrTransient, stageSidecar, "save", "create temp file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return services.Wrap(services.ErrTransient, stageSidecar, "save", "write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return services.Wrap(services.ErrTransient, stageSidecar, "save", "close temp file", err)
	}
	if err := os.Rename(tmpName, Path(albumDir)); err != nil {
		os.Remove(tmpName)
		return services.Wrap(services.ErrTransient, stageSidecar, "save", "replace sidecar", err)
	}
	return nil
}

// SaveCorrected backs up the existing document before writing the
// corrected record, so a bad correction can be undone by hand.
func SaveCorrected(albumDir string, rec *Record) error {
	src := Path(albumDir)
	if _, err := os.Stat(src); err == nil {
		if err := copyFile(src, src+BackupSuffix); err != nil {
			return services.Wrap(services.ErrTransient, stageSidecar, "save_corrected", "back up sidecar", err)
		}
	}
	rec.CorrectionDate = time.Now().UTC()
	rec.CorrectionTool = correctionTool
	return Save(albumDir, rec)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
