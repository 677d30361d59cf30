package catalog

import "strings"

const (
	minLength = 3
	maxLength = 20
	// Synthetic separator variants are only worth generating once the
	// normalized form is long enough to plausibly split.
	minSyntheticLength = 6
)

// Normalize strips whitespace, removes spaces and hyphens, and uppercases the
// catalog number so differently printed spellings compare equal.
func Normalize(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	return strings.ToUpper(normalized)
}

// Valid reports whether a normalized catalog number is plausible enough to
// search for: 3-20 characters with at least one alphanumeric rune.
func Valid(normalized string) bool {
	if len(normalized) < minLength || len(normalized) > maxLength {
		return false
	}
	for _, r := range normalized {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}

// Variants returns the ordered, de-duplicated list of spellings to search:
// the original input first, then the normalized form, then hyphen/space swaps
// of the original, and finally synthetic separator positions when the input
// carried no separator at all. Later variants routinely find releases the
// earlier ones miss.
func Variants(raw string) []string {
	original := strings.TrimSpace(raw)
	if original == "" {
		return nil
	}
	normalized := Normalize(original)

	candidates := []string{original, normalized}

	if strings.Contains(original, " ") {
		candidates = append(candidates,
			strings.ReplaceAll(original, " ", "-"),
			strings.ReplaceAll(original, " ", ""),
		)
	}
	if strings.Contains(original, "-") {
		candidates = append(candidates, strings.ReplaceAll(original, "-", " "))
	}

	noSeparators := !strings.Contains(original, " ") && !strings.Contains(original, "-")
	if noSeparators && len(normalized) >= minSyntheticLength {
		for pos := 3; pos <= 6 && pos < len(normalized); pos++ {
			candidates = append(candidates, normalized[:pos]+"-"+normalized[pos:])
		}
		for pos := 3; pos <= 6 && pos < len(normalized); pos++ {
			candidates = append(candidates, normalized[:pos]+" "+normalized[pos:])
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		variants = append(variants, candidate)
	}
	return variants
}
