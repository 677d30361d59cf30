// Command platter rips audio CDs, identifies them against
// MusicBrainz, reconciles their tags, and files them into a library.
package main
