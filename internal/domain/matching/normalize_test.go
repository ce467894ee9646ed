package matching

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "UBER EATS", "uber eats"},
		{"trims whitespace", "  Starbucks  ", "starbucks"},
		{"strips punctuation", "McDonald's #1234", "mcdonalds 1234"},
		{"collapses interior whitespace", "Whole   Foods\tMarket", "whole foods market"},
		{"keeps digits", "7-Eleven", "7eleven"},
		{"empty input", "", ""},
		{"punctuation only", "***", ""},
		{"unicode letters survive", "Café Olé", "café olé"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalize_StoredAndRuntimeKeysAgree(t *testing.T) {
	// Normalizing an already-normalized string must be a no-op, otherwise
	// stored mapping keys would drift from runtime keys.
	inputs := []string{"UBER EATS", "  Trader Joe's ", "CVS/pharmacy #991"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize is not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
