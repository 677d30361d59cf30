package library

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"

	"platter/internal/services"
)

// TrackSummary is the metadata of one audio file as a generic tag
// reader sees it, used for reporting rather than reconciliation.
type TrackSummary struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Track  int
	Disc   int
	Year   int
}

// Probe reads a file's tags through a format-agnostic parser. It
// deliberately does not use the reconciler's FLAC-specific reader, so
// reports reflect what ordinary players will display.
func Probe(path string) (TrackSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrackSummary{}, services.Wrap(services.ErrNotFound, stageLibrary, "probe",
			fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return TrackSummary{}, services.Wrap(services.ErrMalformedRecord, stageLibrary, "probe",
			fmt.Sprintf("read tags from %s", path), err)
	}
	track, _ := meta.Track()
	disc, _ := meta.Disc()
	return TrackSummary{
		Path:   path,
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Track:  track,
		Disc:   disc,
		Year:   meta.Year(),
	}, nil
}
