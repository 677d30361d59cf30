// Package tags builds the desired Vorbis comment set for a track,
// diffs it against what a file carries, and applies only the
// difference so repeated runs leave files untouched.
package tags
