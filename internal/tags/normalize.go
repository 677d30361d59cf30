package tags

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var legacyTrackPattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// NormalizeLegacy rewrites tag conventions from older rips in place
// and returns the fields it changed. The known legacy shape is a
// combined "disc-track" TRACKNUMBER, which is split into a two-digit
// TRACKNUMBER and a DISCNUMBER. Files with no disc number at all get
// DISCNUMBER "1".
func NormalizeLegacy(set Set) []string {
	var changed []string

	if m := legacyTrackPattern.FindStringSubmatch(set[FieldTrackNumber]); m != nil {
		disc, _ := strconv.Atoi(m[1])
		track, _ := strconv.Atoi(m[2])
		set[FieldTrackNumber] = fmt.Sprintf("%02d", track)
		changed = append(changed, FieldTrackNumber)
		if set[FieldDiscNumber] == "" {
			set[FieldDiscNumber] = strconv.Itoa(disc)
			changed = append(changed, FieldDiscNumber)
		}
	} else if raw := strings.TrimSpace(set[FieldTrackNumber]); raw != "" {
		// Bare track numbers get zero padded for stable sorting.
		if n, err := strconv.Atoi(raw); err == nil {
			padded := fmt.Sprintf("%02d", n)
			if padded != set[FieldTrackNumber] {
				set[FieldTrackNumber] = padded
				changed = append(changed, FieldTrackNumber)
			}
		}
	}

	if set[FieldTrackNumber] != "" && set[FieldDiscNumber] == "" {
		set[FieldDiscNumber] = "1"
		changed = append(changed, FieldDiscNumber)
	}
	return changed
}
