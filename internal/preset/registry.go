package preset

import (
	"sort"
	"strings"
)

// DefaultName is the documented weak baseline every unknown preset name
// falls back to.
const DefaultName = "default"

// StrongestName is the preset forced whenever a job carries a password.
const StrongestName = "heavy"

// definition is one named recipe. makeNames, when set, builds a fresh
// identifier generator per Resolve call.
type definition struct {
	name        string
	description string
	options     map[string]any
	makeNames   func() *DictionaryGenerator
}

// Meta describes one preset for catalog listings.
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry maps preset names to recipes. Lookup is case-insensitive and
// total: unknown names resolve to the default baseline.
type Registry struct {
	defs map[string]*definition
}

// NewRegistry builds the registry with all built-in presets.
func NewRegistry() *Registry {
	r := &Registry{defs: map[string]*definition{}}

	r.add(&definition{
		name:        DefaultName,
		description: "Weak baseline: compacted output only, no obfuscation passes.",
		options: map[string]any{
			"compact":               true,
			"simplify":              true,
			"controlFlowFlattening": false,
			"deadCodeInjection":     false,
			"stringArray":           false,
			"renameGlobals":         false,
			"target":                "node",
		},
	})

	r.add(&definition{
		name:        "balanced",
		description: "Safe default: flattening and string encoding at moderate thresholds.",
		options: map[string]any{
			"compact":                        true,
			"simplify":                       true,
			"controlFlowFlattening":          true,
			"controlFlowFlatteningThreshold": 0.5,
			"deadCodeInjection":              true,
			"deadCodeInjectionThreshold":     0.2,
			"numbersToExpressions":           true,
			"stringArray":                    true,
			"stringArrayThreshold":           0.75,
			"stringArrayEncoding":            []string{"base64"},
			"splitStrings":                   true,
			"splitStringsChunkLength":        8,
			"identifierNamesGenerator":       "hexadecimal",
			"renameGlobals":                  false,
			"target":                         "node",
		},
	})

	r.derive("balanced", &definition{
		name:        StrongestName,
		description: "Self-defending: maximum thresholds, debug protection, RC4 strings.",
		options: map[string]any{
			"controlFlowFlatteningThreshold": 1.0,
			"deadCodeInjectionThreshold":     0.4,
			"stringArrayThreshold":           1.0,
			"stringArrayEncoding":            []string{"rc4"},
			"selfDefending":                  true,
			"debugProtection":                true,
			"debugProtectionInterval":        2000,
			"disableConsoleOutput":           true,
			"identifierNamesGenerator":       "mangled-shuffled",
		},
	})

	r.derive("balanced", &definition{
		name:        "katakana",
		description: "Balanced strength with katakana identifier names.",
		makeNames: func() *DictionaryGenerator {
			return NewDictionaryGenerator(alphabetKatakana, 6)
		},
	})

	r.derive("balanced", &definition{
		name:        "cyrillic",
		description: "Balanced strength with cyrillic identifier names.",
		makeNames: func() *DictionaryGenerator {
			return NewDictionaryGenerator(alphabetCyrillic, 8)
		},
	})

	r.derive("balanced", &definition{
		name:        "greek",
		description: "Balanced strength with greek identifier names.",
		makeNames: func() *DictionaryGenerator {
			return NewDictionaryGenerator(alphabetGreek, 7)
		},
	})

	return r
}

// add registers a definition under its lowercased name.
func (r *Registry) add(def *definition) {
	r.defs[strings.ToLower(def.name)] = def
}

// derive registers a definition that inherits a base preset's options and
// overlays its own. The base's option map is copied, never mutated, and the
// overlay is key-wise so unrelated options keep their base values.
func (r *Registry) derive(base string, def *definition) {
	parent := r.defs[strings.ToLower(base)]
	merged := make(map[string]any, len(parent.options)+len(def.options))
	for k, v := range parent.options {
		merged[k] = v
	}
	for k, v := range def.options {
		merged[k] = v
	}
	def.options = merged
	if def.makeNames == nil {
		def.makeNames = parent.makeNames
	}
	r.add(def)
}

// Resolve returns a fresh Config for the named preset. Unknown, empty, or
// garbage names fall back to the default baseline; Resolve never fails.
func (r *Registry) Resolve(name string) Config {
	def, ok := r.defs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		def = r.defs[DefaultName]
	}

	options := make(map[string]any, len(def.options))
	for k, v := range def.options {
		options[k] = v
	}

	cfg := Config{Preset: def.name, Options: options}
	if def.makeNames != nil {
		cfg.Names = def.makeNames()
	}
	return cfg
}

// Names returns catalog metadata for all registered presets, sorted by name.
func (r *Registry) Names() []Meta {
	out := make([]Meta, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, Meta{Name: def.name, Description: def.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
