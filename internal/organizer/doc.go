// Package organizer computes library locations and canonical
// filenames for tagged albums and moves files into place without ever
// overwriting existing content.
package organizer
