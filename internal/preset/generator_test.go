package preset

import (
	"testing"
	"unicode"
)

// TestGeneratorNamesAreValidIdentifiers verifies every rune of every
// generated name is legal in a JavaScript identifier.
func TestGeneratorNamesAreValidIdentifiers(t *testing.T) {
	for _, alphabet := range []string{alphabetKatakana, alphabetCyrillic, alphabetGreek} {
		g := NewDictionaryGenerator(alphabet, 6)
		for i := 0; i < 200; i++ {
			name := g.Next()
			if name == "" {
				t.Fatal("empty identifier")
			}
			for pos, r := range name {
				if pos == 0 && !unicode.IsLetter(r) {
					t.Fatalf("name %q starts with non-letter %q", name, r)
				}
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					t.Fatalf("name %q contains invalid rune %q", name, r)
				}
			}
		}
	}
}

// TestGeneratorNamesAreDistinct verifies the counter suffix prevents
// collisions even with repeating stems.
func TestGeneratorNamesAreDistinct(t *testing.T) {
	g := NewDictionaryGenerator(alphabetGreek, 1)
	seen := make(map[string]bool)
	for i := 0; i < 5000; i++ {
		name := g.Next()
		if seen[name] {
			t.Fatalf("collision after %d names: %q", i, name)
		}
		seen[name] = true
	}
}
