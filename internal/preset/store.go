package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Overrides maps preset names to option overlays loaded from disk. Options
// for known presets are merged over the built-in recipe; unknown names
// define new presets derived from the default baseline.
type Overrides map[string]map[string]any

// LoadOverrides reads a JSON overrides file. A missing file is not an
// error: operators may leave PRESETS_FILE unset or pointing at a file they
// have not created yet.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out Overrides
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse presets file %s: %w", path, err)
	}
	return out, nil
}

// Apply merges overrides into the registry. Built-in recipes are extended
// key-wise; new names become derivatives of the default baseline. Each
// override touches only the named preset: derivatives captured their base
// options at registry construction, so overriding a base does not cascade
// into presets derived from it.
func (r *Registry) Apply(overrides Overrides) {
	for name, options := range overrides {
		if def, ok := r.defs[strings.ToLower(name)]; ok {
			merged := make(map[string]any, len(def.options)+len(options))
			for k, v := range def.options {
				merged[k] = v
			}
			for k, v := range options {
				merged[k] = v
			}
			def.options = merged
			continue
		}

		r.derive(DefaultName, &definition{
			name:        name,
			description: "Operator-defined preset.",
			options:     options,
		})
	}
}
