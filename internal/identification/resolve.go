package identification

import (
	"strings"

	"golang.org/x/text/cases"
)

// Prompter asks the operator to settle a metadata conflict. A nil
// Prompter means a non-interactive run.
type Prompter interface {
	ChooseArtist(ripped, catalog string) (string, error)
}

// ResolveArtist reconciles the artist name recorded at rip time with
// the catalog's credited name. Trivial differences (casing, spacing,
// a leading article) are settled silently in the catalog's favor; a
// real conflict goes to the prompter, or to the catalog when no
// prompter is available.
func ResolveArtist(ripped, catalogName string, prompter Prompter) (string, error) {
	ripped = strings.TrimSpace(ripped)
	catalogName = strings.TrimSpace(catalogName)
	if ripped == "" {
		return catalogName, nil
	}
	if catalogName == "" {
		return ripped, nil
	}
	if TrivialDifference(ripped, catalogName) {
		return catalogName, nil
	}
	if prompter == nil {
		return catalogName, nil
	}
	return prompter.ChooseArtist(ripped, catalogName)
}

// TrivialDifference reports whether two artist names differ only in
// casing, surrounding or repeated whitespace, or a leading "The".
func TrivialDifference(a, b string) bool {
	return foldArtist(a) == foldArtist(b)
}

var artistFolder = cases.Fold()

func foldArtist(name string) string {
	folded := artistFolder.String(strings.Join(strings.Fields(name), " "))
	folded = strings.TrimPrefix(folded, "the ")
	return folded
}
