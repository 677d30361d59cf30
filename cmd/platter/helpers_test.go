package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"platter/internal/media"
	"platter/internal/sidecar"
)

func TestRipDirName(t *testing.T) {
	if got := ripDirName("Nirvana", "Nevermind"); got != "Nirvana - Nevermind" {
		t.Fatalf("unexpected dir name %q", got)
	}
	if got := ripDirName("AC/DC", "Back in Black"); got != "AC-DC - Back in Black" {
		t.Fatalf("expected sanitized dir name, got %q", got)
	}
	anon := ripDirName("", "")
	if !strings.HasPrefix(anon, "disc-") || len(anon) != len("disc-")+8 {
		t.Fatalf("unexpected anonymous dir name %q", anon)
	}
}

func TestStagedAlbums(t *testing.T) {
	staging := t.TempDir()

	withSidecar := filepath.Join(staging, "album-a")
	if err := os.MkdirAll(withSidecar, 0o755); err != nil {
		t.Fatal(err)
	}
	rec := &sidecar.Record{
		TotalTracks: 1,
		Metadata:    &media.Release{MBID: media.MBIDUserEntered, Album: "A", Artist: "X"},
	}
	if err := sidecar.Save(withSidecar, rec); err != nil {
		t.Fatal(err)
	}
	// A directory without a sidecar is not a staged album.
	if err := os.MkdirAll(filepath.Join(staging, "album-b"), 0o755); err != nil {
		t.Fatal(err)
	}

	dirs, err := stagedAlbums(staging)
	if err != nil {
		t.Fatalf("stagedAlbums: %v", err)
	}
	if len(dirs) != 1 || dirs[0] != withSidecar {
		t.Fatalf("unexpected staged albums %v", dirs)
	}
}

func TestStagedAlbumsMissingDir(t *testing.T) {
	dirs, err := stagedAlbums(filepath.Join(t.TempDir(), "absent"))
	if err != nil || dirs != nil {
		t.Fatalf("missing staging dir should be empty, got %v err %v", dirs, err)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("unexpected yesNo output")
	}
}
