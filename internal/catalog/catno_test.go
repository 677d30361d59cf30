package catalog

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"GEFD 24617", "GEFD24617"},
		{"GEFD-24617", "GEFD24617"},
		{"  cdv 2644  ", "CDV2644"},
		{"7599-26985-2", "7599269852"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Normalize(tc.raw); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		normalized string
		want       bool
	}{
		{"GEFD24617", true},
		{"AB1", true},
		{"AB", false},
		{"", false},
		{"---", false},
		{"ABCDEFGHIJKLMNOPQRSTU", false},
	}
	for _, tc := range tests {
		if got := Valid(tc.normalized); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.normalized, got, tc.want)
		}
	}
}

func TestVariantsHyphenInput(t *testing.T) {
	variants := Variants("GEFD-24617")
	if variants[0] != "GEFD-24617" {
		t.Fatalf("first variant should be the original input, got %q", variants[0])
	}
	for _, want := range []string{"GEFD-24617", "GEFD24617", "GEFD 24617"} {
		if !contains(variants, want) {
			t.Errorf("Variants(GEFD-24617) missing %q: %v", want, variants)
		}
	}
	assertNoDuplicates(t, variants)
}

func TestVariantsSpaceInput(t *testing.T) {
	variants := Variants("GEFD 24617")
	for _, want := range []string{"GEFD 24617", "GEFD24617", "GEFD-24617"} {
		if !contains(variants, want) {
			t.Errorf("Variants(GEFD 24617) missing %q: %v", want, variants)
		}
	}
	assertNoDuplicates(t, variants)
}

func TestVariantsSyntheticSeparators(t *testing.T) {
	variants := Variants("GEFD24617")
	for _, want := range []string{
		"GEF-D24617", "GEFD-24617", "GEFD2-4617", "GEFD24-617",
		"GEF D24617", "GEFD 24617", "GEFD2 4617", "GEFD24 617",
	} {
		if !contains(variants, want) {
			t.Errorf("Variants(GEFD24617) missing synthetic variant %q", want)
		}
	}
}

func TestVariantsShortInputNoSynthetics(t *testing.T) {
	variants := Variants("AB12")
	if len(variants) != 1 {
		t.Fatalf("short separator-free input should yield only itself, got %v", variants)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func assertNoDuplicates(t *testing.T, values []string) {
	t.Helper()
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			t.Fatalf("duplicate variant %q in %v", v, values)
		}
		seen[v] = struct{}{}
	}
}
