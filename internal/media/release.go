package media

import (
	"fmt"
	"strings"
)

// VariousArtists is the sentinel album artist for multi-contributor releases.
const VariousArtists = "Various Artists"

// AlbumType classifies how an album is filed and credited.
type AlbumType string

const (
	AlbumTypeRegular     AlbumType = "regular"
	AlbumTypeSoundtrack  AlbumType = "soundtrack"
	AlbumTypeCompilation AlbumType = "compilation"
)

// ParseAlbumType validates a user-supplied album type string.
func ParseAlbumType(value string) (AlbumType, error) {
	switch AlbumType(strings.ToLower(strings.TrimSpace(value))) {
	case AlbumTypeRegular, "":
		return AlbumTypeRegular, nil
	case AlbumTypeSoundtrack:
		return AlbumTypeSoundtrack, nil
	case AlbumTypeCompilation:
		return AlbumTypeCompilation, nil
	default:
		return "", fmt.Errorf("unknown album type %q", value)
	}
}

// MultiArtist reports whether per-track artists participate in filenames.
func (t AlbumType) MultiArtist() bool {
	return t == AlbumTypeSoundtrack || t == AlbumTypeCompilation
}

// TrackEntry is one canonical track of a release, ordered by (disc, track).
type TrackEntry struct {
	Number      int    `json:"number"`       // running absolute index across discs
	Disc        int    `json:"disc"`         // 1-based disc number
	TrackNumber int    `json:"track_number"` // 1-based position within the disc
	Title       string `json:"title"`
	RecordingID string `json:"mbid,omitempty"`
	TrackID     string `json:"track_id,omitempty"`
	Artist      string `json:"artist,omitempty"` // only when distinct from the album artist
	ArtistSort  string `json:"artist_sort,omitempty"`
	Length      int    `json:"length,omitempty"` // milliseconds
}

// Release is the canonical metadata chosen to describe one physical disc set.
type Release struct {
	MBID           string       `json:"mbid"`
	Album          string       `json:"album"`
	Artist         string       `json:"artist"`
	AlbumArtist    string       `json:"album_artist"`
	ArtistSort     string       `json:"artist_sort,omitempty"`
	ArtistID       string       `json:"artist_id,omitempty"`
	ReleaseGroupID string       `json:"release_group_id,omitempty"`
	Date           string       `json:"date"`
	OriginalDate   string       `json:"original_date,omitempty"`
	Country        string       `json:"country,omitempty"`
	Label          string       `json:"label,omitempty"`
	CatalogNumber  string       `json:"catalog_number,omitempty"`
	Barcode        string       `json:"barcode,omitempty"`
	Media          string       `json:"media,omitempty"`
	Language       string       `json:"language,omitempty"`
	Script         string       `json:"script,omitempty"`
	DiscCount      int          `json:"disc_count"`
	AlbumType      AlbumType    `json:"album_type"`
	Method         string       `json:"method"`
	Tracks         []TrackEntry `json:"tracks"`
}

// TrackCount returns the total number of canonical tracks.
func (r *Release) TrackCount() int {
	return len(r.Tracks)
}

// TrackByIndex finds the canonical entry for a 1-based absolute track index
// parsed from a filename. Returns nil when the index is outside the release.
func (r *Release) TrackByIndex(index int) *TrackEntry {
	for i := range r.Tracks {
		if r.Tracks[i].Number == index {
			return &r.Tracks[i]
		}
	}
	return nil
}

// MBIDUserEntered marks placeholder metadata typed in at rip time, before any
// catalog record has been accepted.
const MBIDUserEntered = "user-entered"

// Identified reports whether the release is bound to a catalog record rather
// than user-entered placeholders.
func (r *Release) Identified() bool {
	return r.MBID != "" && r.MBID != MBIDUserEntered
}

// Method values recorded in sidecar provenance.
const (
	MethodManual          = "manual"
	MethodCatalogNumber   = "catalog-number"
	MethodArtistAlbum     = "artist-album"
	MethodArtistAlbumFall = "artist-album-fallback"
	MethodCorrector       = "metadata-corrector"
)
