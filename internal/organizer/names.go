package organizer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"platter/internal/media"
)

// soundtracksDir is the shared parent for soundtrack albums.
const soundtracksDir = "Soundtracks"

// filenameSubstitutions maps characters that are unsafe in filenames
// to visually close replacements.
var filenameSubstitutions = map[rune]string{
	'/':  "-",
	'\\': "-",
	':':  "-",
	'?':  "",
	'*':  "",
	'"':  "'",
	'<':  "(",
	'>':  ")",
	'|':  "-",
}

// SanitizeFileName replaces characters that cannot appear in a file
// name and collapses the whitespace the substitutions leave behind.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if sub, ok := filenameSubstitutions[r]; ok {
			b.WriteString(sub)
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SanitizeDirName only rewrites path separators; directory names keep
// every other character so existing libraries stay addressable.
func SanitizeDirName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return strings.TrimSpace(name)
}

// AlbumDir returns the album's directory relative to the library root.
// Soundtracks are filed together; everything else under the album artist.
func AlbumDir(rel *media.Release) string {
	album := SanitizeDirName(rel.Album)
	if rel.AlbumType == media.AlbumTypeSoundtrack {
		return filepath.Join(soundtracksDir, album)
	}
	artist := SanitizeDirName(rel.AlbumArtist)
	if artist == "" {
		artist = SanitizeDirName(media.VariousArtists)
	}
	return filepath.Join(artist, album)
}

// TrackFileName builds the canonical file name for a track:
// "DD-TT. Title.flac", with the track artist spliced in for
// soundtracks and compilations when it differs from the album artist.
func TrackFileName(rel *media.Release, track *media.TrackEntry) string {
	prefix := fmt.Sprintf("%02d-%02d. ", track.Disc, track.TrackNumber)

	var artistPart string
	if rel.AlbumType.MultiArtist() && track.Artist != "" && track.Artist != rel.AlbumArtist {
		artistPart = SanitizeFileName(track.Artist) + " - "
	}
	title := SanitizeFileName(track.Title)
	if title == "" {
		title = fmt.Sprintf("Track %02d", track.TrackNumber)
	}
	return prefix + artistPart + title + ".flac"
}

var (
	combinedIndexPattern = regexp.MustCompile(`^(\d+)-(\d+)[. _-]`)
	bareIndexPattern     = regexp.MustCompile(`^(?:[Tt]rack[ _])?(\d+)`)
)

// ParseIndex extracts the disc and track index encoded in a source
// file name. "03-07. x.flac" yields (3, 7); bare prefixes like
// "Track_05.flac" or "05 x.flac" yield disc 1.
func ParseIndex(name string) (disc, track int, ok bool) {
	base := filepath.Base(name)
	if m := combinedIndexPattern.FindStringSubmatch(base); m != nil {
		d, _ := strconv.Atoi(m[1])
		t, _ := strconv.Atoi(m[2])
		if d > 0 && t > 0 {
			return d, t, true
		}
	}
	if m := bareIndexPattern.FindStringSubmatch(base); m != nil {
		t, _ := strconv.Atoi(m[1])
		if t > 0 {
			return 1, t, true
		}
	}
	return 0, 0, false
}
