// Package ripping drives cdparanoia and the flac encoder to capture a
// disc's audio tracks into a staging directory.
package ripping
