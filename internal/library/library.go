package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"platter/internal/organizer"
	"platter/internal/services"
	"platter/internal/sidecar"
)

const stageLibrary = "library"

// Album is one album directory found in a scan.
type Album struct {
	// Path is absolute.
	Path string
	// RelPath is relative to the scanned root.
	RelPath    string
	Tracks     []string
	HasSidecar bool
}

// TrackCount returns the number of audio files in the album.
func (a Album) TrackCount() int {
	return len(a.Tracks)
}

// Scan walks root and returns every directory holding FLAC files,
// sorted by relative path for stable output.
func Scan(root string) ([]Album, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrNotFound, stageLibrary, "scan",
			fmt.Sprintf("library root %s is not a directory", root), err)
	}

	var albums []Album
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		tracks, listErr := organizer.ListFlacs(path)
		if listErr != nil || len(tracks) == 0 {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		albums = append(albums, Album{
			Path:       path,
			RelPath:    rel,
			Tracks:     tracks,
			HasSidecar: sidecar.Exists(path),
		})
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, stageLibrary, "scan", "walk library", err)
	}

	sort.Slice(albums, func(a, b int) bool { return albums[a].RelPath < albums[b].RelPath })
	return albums, nil
}

// FindAlbum resolves an album argument: an absolute or relative path
// to an album directory holding at least one FLAC file.
func FindAlbum(path string) (Album, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Album{}, services.Wrap(services.ErrValidation, stageLibrary, "find", "resolve path", err)
	}
	tracks, err := organizer.ListFlacs(abs)
	if err != nil {
		return Album{}, err
	}
	if len(tracks) == 0 {
		return Album{}, services.Wrap(services.ErrNotFound, stageLibrary, "find",
			fmt.Sprintf("no flac files in %s", abs), nil)
	}
	return Album{
		Path:       abs,
		RelPath:    filepath.Base(abs),
		Tracks:     tracks,
		HasSidecar: sidecar.Exists(abs),
	}, nil
}

// LegacyTrackName reports whether a file still uses a pre-organizer
// naming convention (Track_NN.flac or a bare numeric prefix without
// the disc part).
func LegacyTrackName(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "Track_") || strings.HasPrefix(base, "track_") {
		return true
	}
	disc, _, ok := organizer.ParseIndex(base)
	if !ok {
		return false
	}
	// Canonical names always carry the DD- prefix.
	return disc == 1 && !strings.Contains(strings.SplitN(base, ".", 2)[0], "-")
}
