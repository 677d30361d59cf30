package tags

import (
	"fmt"

	"platter/internal/media"
)

// Vorbis comment field names grouped the way the reconciler treats them.
const (
	FieldTitle       = "TITLE"
	FieldArtist      = "ARTIST"
	FieldAlbum       = "ALBUM"
	FieldAlbumArtist = "ALBUMARTIST"
	FieldTrackNumber = "TRACKNUMBER"
	FieldDiscNumber  = "DISCNUMBER"
	FieldTrackTotal  = "TRACKTOTAL"
	FieldDiscTotal   = "DISCTOTAL"
	FieldDate        = "DATE"
	FieldOrigDate    = "ORIGINALDATE"
	FieldGenre       = "GENRE"
	FieldLabel       = "LABEL"
	FieldCatalogNum  = "CATALOGNUMBER"
	FieldBarcode     = "BARCODE"
	FieldMedia       = "MEDIA"
	FieldArtistSort  = "ARTISTSORT"

	FieldMBAlbumID        = "MUSICBRAINZ_ALBUMID"
	FieldMBArtistID       = "MUSICBRAINZ_ARTISTID"
	FieldMBAlbumArtistID  = "MUSICBRAINZ_ALBUMARTISTID"
	FieldMBReleaseGroupID = "MUSICBRAINZ_RELEASEGROUPID"
	FieldMBTrackID        = "MUSICBRAINZ_RELEASETRACKID"
	FieldMBRecordingID    = "MUSICBRAINZ_TRACKID"

	FieldReleaseCountry = "RELEASECOUNTRY"
	FieldReleaseStatus  = "RELEASESTATUS"
	FieldLanguage       = "LANGUAGE"
	FieldScript         = "SCRIPT"
	FieldCompilation    = "COMPILATION"
)

// RequiredFields must be present on every tagged track.
var RequiredFields = []string{
	FieldTitle,
	FieldArtist,
	FieldAlbum,
	FieldAlbumArtist,
	FieldTrackNumber,
	FieldDiscNumber,
}

// Set is a single-valued view of a track's Vorbis comments.
type Set map[string]string

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MissingRequired lists required fields absent or empty in the set.
func (s Set) MissingRequired() []string {
	var missing []string
	for _, field := range RequiredFields {
		if s[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Desired builds the full comment set a track should carry given the
// chosen release. Empty release fields are omitted rather than written
// as empty comments.
func Desired(rel *media.Release, track *media.TrackEntry) Set {
	set := Set{
		FieldTitle:       track.Title,
		FieldAlbum:       rel.Album,
		FieldAlbumArtist: rel.AlbumArtist,
		FieldTrackNumber: fmt.Sprintf("%02d", track.TrackNumber),
		FieldDiscNumber:  fmt.Sprintf("%d", track.Disc),
		FieldTrackTotal:  fmt.Sprintf("%d", rel.TrackCount()),
		FieldDiscTotal:   fmt.Sprintf("%d", rel.DiscCount),
	}

	artist := track.Artist
	if artist == "" {
		artist = rel.Artist
	}
	set[FieldArtist] = artist

	put := func(field, value string) {
		if value != "" {
			set[field] = value
		}
	}
	put(FieldDate, rel.Date)
	put(FieldOrigDate, rel.OriginalDate)
	put(FieldLabel, rel.Label)
	put(FieldCatalogNum, rel.CatalogNumber)
	put(FieldBarcode, rel.Barcode)
	put(FieldMedia, rel.Media)
	put(FieldReleaseCountry, rel.Country)
	put(FieldLanguage, rel.Language)
	put(FieldScript, rel.Script)
	put(FieldArtistSort, track.ArtistSort)
	if track.ArtistSort == "" {
		put(FieldArtistSort, rel.ArtistSort)
	}

	if rel.Identified() {
		put(FieldMBAlbumID, rel.MBID)
		put(FieldMBArtistID, rel.ArtistID)
		put(FieldMBAlbumArtistID, rel.ArtistID)
		put(FieldMBReleaseGroupID, rel.ReleaseGroupID)
		put(FieldMBTrackID, track.TrackID)
		put(FieldMBRecordingID, track.RecordingID)
	}

	if rel.AlbumType == media.AlbumTypeCompilation {
		set[FieldCompilation] = "1"
	}
	return set
}
