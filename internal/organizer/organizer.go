package organizer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"platter/internal/logging"
	"platter/internal/media"
	"platter/internal/services"
)

const stageOrganize = "organize"

// Organizer moves albums into the library layout.
type Organizer struct {
	root   string
	logger *slog.Logger
}

// New builds an Organizer rooted at the library directory.
func New(root string, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{
		root:   root,
		logger: logging.NewComponentLogger(logger, "organizer"),
	}
}

// Rename is one planned file move.
type Rename struct {
	Source string
	Target string
}

// Plan maps every FLAC file in dir to its canonical location under the
// library root. Files whose index cannot be parsed or matched against
// the release are reported as errors, not silently skipped.
func (o *Organizer) Plan(dir string, rel *media.Release) ([]Rename, error) {
	files, err := ListFlacs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, services.Wrap(services.ErrValidation, stageOrganize, "plan",
			fmt.Sprintf("no flac files in %s", dir), nil)
	}

	albumDir := filepath.Join(o.root, AlbumDir(rel))
	var renames []Rename
	for _, file := range files {
		disc, track, ok := ParseIndex(file)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, stageOrganize, "plan",
				fmt.Sprintf("cannot parse track index from %s", file), nil)
		}
		entry := findTrack(rel, disc, track)
		if entry == nil {
			return nil, services.Wrap(services.ErrConflict, stageOrganize, "plan",
				fmt.Sprintf("%s has no matching track (disc %d track %d)", file, disc, track), nil)
		}
		renames = append(renames, Rename{
			Source: filepath.Join(dir, file),
			Target: filepath.Join(albumDir, TrackFileName(rel, entry)),
		})
	}
	return renames, nil
}

// Execute performs the planned moves and removes the source directory
// if the moves emptied it.
func (o *Organizer) Execute(dir string, renames []Rename) error {
	for _, rn := range renames {
		if err := o.move(rn.Source, rn.Target); err != nil {
			return err
		}
		o.logger.Info("moved track",
			logging.String("from", rn.Source),
			logging.String("to", rn.Target))
	}
	Cleanup(dir)
	return nil
}

// move never overwrites: an existing target is a conflict the operator
// has to resolve.
func (o *Organizer) move(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return services.Wrap(services.ErrConflict, stageOrganize, "move",
			fmt.Sprintf("target already exists: %s", dst), nil)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, stageOrganize, "move", "create album directory", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and remove.
	if err := copyFile(src, dst); err != nil {
		return services.Wrap(services.ErrTransient, stageOrganize, "move",
			fmt.Sprintf("copy %s to %s", src, dst), err)
	}
	if err := os.Remove(src); err != nil {
		return services.Wrap(services.ErrTransient, stageOrganize, "move",
			fmt.Sprintf("remove source %s", src), err)
	}
	return nil
}

// Cleanup removes dir and its parents while they are empty. Failures
// are tolerated; a shared staging tree may be in use by another run.
func Cleanup(dir string) {
	for current := dir; current != "/" && current != "."; current = filepath.Dir(current) {
		entries, err := os.ReadDir(current)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(current); err != nil {
			return
		}
	}
}

// ListFlacs returns the FLAC file names in dir, sorted.
func ListFlacs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, stageOrganize, "list",
			fmt.Sprintf("read directory %s", dir), err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".flac") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func findTrack(rel *media.Release, disc, track int) *media.TrackEntry {
	for i := range rel.Tracks {
		if rel.Tracks[i].Disc == disc && rel.Tracks[i].TrackNumber == track {
			return &rel.Tracks[i]
		}
	}
	if disc == 1 {
		return rel.TrackByIndex(track)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
