// Package identification resolves ripped albums to MusicBrainz
// releases via catalog number or artist/album search, extracts a
// canonical release model, and reconciles artist-name conflicts.
package identification
