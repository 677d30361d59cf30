// Package musicbrainz implements a typed client for the MusicBrainz
// ws/2 JSON API with server-directed throttling and bounded retries.
package musicbrainz
