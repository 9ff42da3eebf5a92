package preset

import "testing"

// TestResolveUnknownFallsBackToDefault verifies resolve is total over all
// string inputs.
func TestResolveUnknownFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"", "nope", "DROP TABLE", "  ", "défaut"} {
		cfg := r.Resolve(name)
		if cfg.Preset != DefaultName {
			t.Fatalf("Resolve(%q) preset = %q, want %q", name, cfg.Preset, DefaultName)
		}
		if cfg.Options["stringArray"] != false {
			t.Fatalf("Resolve(%q) should use the weak baseline options", name)
		}
	}
}

// TestResolveCaseInsensitive verifies lookup ignores case and whitespace.
func TestResolveCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Heavy", "HEAVY", " heavy "} {
		if cfg := r.Resolve(name); cfg.Preset != StrongestName {
			t.Fatalf("Resolve(%q) preset = %q, want %q", name, cfg.Preset, StrongestName)
		}
	}
}

// TestResolveReturnsIndependentConfigs verifies two resolves never share
// option maps or generator state.
func TestResolveReturnsIndependentConfigs(t *testing.T) {
	r := NewRegistry()
	a := r.Resolve("katakana")
	b := r.Resolve("katakana")

	a.Options["compact"] = "mutated"
	if b.Options["compact"] != true {
		t.Fatal("option mutation leaked between configs")
	}

	for i := 0; i < 50; i++ {
		a.Names.Next()
	}
	if b.Names.Counter() != 0 {
		t.Fatalf("generator state leaked: counter = %d, want 0", b.Names.Counter())
	}
	name := b.Names.Next()
	if name == "" {
		t.Fatal("expected non-empty name from untouched generator")
	}
}

// TestDerivedPresetKeepsBaseOptions verifies derivation copies the base and
// only overlays declared keys.
func TestDerivedPresetKeepsBaseOptions(t *testing.T) {
	r := NewRegistry()
	heavy := r.Resolve("heavy")
	balanced := r.Resolve("balanced")

	// inherited, not overridden
	if heavy.Options["numbersToExpressions"] != true {
		t.Fatal("heavy should inherit numbersToExpressions from balanced")
	}
	// overridden
	if heavy.Options["selfDefending"] != true {
		t.Fatal("heavy should enable selfDefending")
	}
	// base untouched
	if _, ok := balanced.Options["selfDefending"]; ok {
		t.Fatal("derivation mutated the base preset")
	}
}

// TestLocalePresetsCarryDistinctGenerators verifies the branding styles.
func TestLocalePresetsCarryDistinctGenerators(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"katakana", "cyrillic", "greek"} {
		cfg := r.Resolve(name)
		if cfg.Names == nil {
			t.Fatalf("preset %q should carry a name generator", name)
		}
	}
	if r.Resolve("balanced").Names != nil {
		t.Fatal("balanced should use the engine's built-in name generator")
	}
}

// TestRenderMaterializesDictionary verifies dictionary rendering produces
// distinct names and the dictionary engine mode.
func TestRenderMaterializesDictionary(t *testing.T) {
	cfg := NewRegistry().Resolve("greek")
	rendered := cfg.Render()

	if rendered["identifierNamesGenerator"] != "dictionary" {
		t.Fatalf("generator mode = %v, want dictionary", rendered["identifierNamesGenerator"])
	}
	dict, ok := rendered["identifiersDictionary"].([]string)
	if !ok || len(dict) == 0 {
		t.Fatalf("expected non-empty dictionary, got %T", rendered["identifiersDictionary"])
	}

	seen := make(map[string]bool, len(dict))
	for _, name := range dict {
		if seen[name] {
			t.Fatalf("duplicate dictionary name: %q", name)
		}
		seen[name] = true
	}
}

// TestRegistryNamesCatalog verifies the catalog lists every built-in.
func TestRegistryNamesCatalog(t *testing.T) {
	metas := NewRegistry().Names()
	if len(metas) < 6 {
		t.Fatalf("catalog size = %d, want at least 6", len(metas))
	}
	found := map[string]bool{}
	for _, m := range metas {
		found[m.Name] = true
		if m.Description == "" {
			t.Fatalf("preset %q has no description", m.Name)
		}
	}
	for _, want := range []string{"default", "balanced", "heavy", "katakana", "cyrillic", "greek"} {
		if !found[want] {
			t.Fatalf("catalog missing preset %q", want)
		}
	}
}
