package tags

import "sort"

// Change records one field moving from an old value to a new one.
type Change struct {
	Field string
	Old   string
	New   string
}

// Diff computes the changes needed to move current to desired. Fields
// present in current but absent from desired are left alone so manual
// annotations survive reconciliation.
func Diff(current, desired Set) []Change {
	var changes []Change
	for field, want := range desired {
		if got := current[field]; got != want {
			changes = append(changes, Change{Field: field, Old: got, New: want})
		}
	}
	sort.Slice(changes, func(a, b int) bool { return changes[a].Field < changes[b].Field })
	return changes
}

// Apply folds changes into the set.
func Apply(set Set, changes []Change) {
	for _, c := range changes {
		set[c.Field] = c.New
	}
}
