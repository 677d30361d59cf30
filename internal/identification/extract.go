package identification

import (
	"platter/internal/media"
	"platter/internal/musicbrainz"
	"platter/internal/services"
)

// Extract converts a full MusicBrainz release document into the
// canonical release model. Releases credited to more than one artist
// are attributed to "Various Artists"; a Soundtrack secondary type on
// the release group overrides the album type.
func Extract(rel *musicbrainz.Release) (*media.Release, error) {
	if rel == nil || rel.ID == "" {
		return nil, services.Wrap(services.ErrValidation, stageIdentify, "extract", "nil or empty release", nil)
	}

	out := &media.Release{
		MBID:    rel.ID,
		Album:   rel.Title,
		Date:    rel.Date,
		Country: rel.Country,
		Barcode: rel.Barcode,
	}

	switch len(rel.ArtistCredit) {
	case 0:
		out.Artist = media.VariousArtists
	case 1:
		credit := rel.ArtistCredit[0]
		out.Artist = credit.Name
		out.ArtistSort = credit.Artist.SortName
		out.ArtistID = credit.Artist.ID
	default:
		out.Artist = media.VariousArtists
	}
	out.AlbumArtist = out.Artist
	creditedArtist := out.Artist
	creditedSort := out.ArtistSort

	if rg := rel.ReleaseGroup; rg != nil {
		out.ReleaseGroupID = rg.ID
		out.OriginalDate = rg.FirstRelease
		out.AlbumType = albumType(rg, out.Artist)
	} else {
		out.AlbumType = media.AlbumTypeRegular
	}
	if out.AlbumType == media.AlbumTypeSoundtrack {
		// Soundtracks file under Various Artists even when the record
		// credits a single composer; per-track credits stay intact.
		out.Artist = media.VariousArtists
		out.AlbumArtist = media.VariousArtists
	}

	for _, info := range rel.LabelInfo {
		if out.CatalogNumber == "" {
			out.CatalogNumber = info.CatalogNumber
		}
		if out.Label == "" && info.Label != nil {
			out.Label = info.Label.Name
		}
	}
	if rep := rel.TextRep; rep != nil {
		out.Language = rep.Language
		out.Script = rep.Script
	}

	out.DiscCount = len(rel.Media)
	if len(rel.Media) > 0 {
		out.Media = rel.Media[0].Format
	}

	index := 0
	for _, medium := range rel.Media {
		for _, track := range medium.Tracks {
			index++
			entry := media.TrackEntry{
				Number:      index,
				Disc:        medium.Position,
				TrackNumber: track.Position,
				Title:       track.Title,
				TrackID:     track.ID,
				Length:      track.Length,
			}
			if track.Recording != nil {
				entry.RecordingID = track.Recording.ID
				if entry.Title == "" {
					entry.Title = track.Recording.Title
				}
				if entry.Length == 0 {
					entry.Length = track.Recording.Length
				}
			}
			if len(track.ArtistCredit) > 0 {
				entry.Artist = musicbrainz.CreditedName(track.ArtistCredit)
				entry.ArtistSort = track.ArtistCredit[0].Artist.SortName
			} else {
				entry.Artist = creditedArtist
				entry.ArtistSort = creditedSort
			}
			out.Tracks = append(out.Tracks, entry)
		}
	}
	if len(out.Tracks) == 0 {
		return nil, services.Wrap(services.ErrMalformedRecord, stageIdentify, "extract", "release has no tracks", nil)
	}
	return out, nil
}

// ApplyAlbumType imposes an operator-declared album type on an
// extracted release. A soundtrack declaration wins over whatever the
// record resolved: the album files under Various Artists while the
// per-track credits stay as extracted.
func ApplyAlbumType(rel *media.Release, declared media.AlbumType) {
	if declared == "" || declared == media.AlbumTypeRegular {
		return
	}
	rel.AlbumType = declared
	if declared == media.AlbumTypeSoundtrack {
		rel.Artist = media.VariousArtists
		rel.AlbumArtist = media.VariousArtists
	}
}

func albumType(rg *musicbrainz.ReleaseGroup, artist string) media.AlbumType {
	for _, secondary := range rg.SecondaryTypes {
		if secondary == "Soundtrack" {
			return media.AlbumTypeSoundtrack
		}
	}
	for _, secondary := range rg.SecondaryTypes {
		if secondary == "Compilation" && artist == media.VariousArtists {
			return media.AlbumTypeCompilation
		}
	}
	return media.AlbumTypeRegular
}
