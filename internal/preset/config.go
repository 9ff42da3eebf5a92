package preset

// Config fully parameterizes one engine invocation. It is built fresh per
// Resolve call and never shared across jobs: Names carries per-config random
// state.
type Config struct {
	// Preset is the resolved preset name, after fallback.
	Preset string

	// Options holds static engine options.
	Options map[string]any

	// Names optionally generates the identifier dictionary for this config.
	Names *DictionaryGenerator
}

// Render produces the final engine option set. The static options are copied
// and, when a name generator is present, an identifiersDictionary is
// materialized by drawing from it.
func (c Config) Render() map[string]any {
	out := make(map[string]any, len(c.Options)+2)
	for k, v := range c.Options {
		out[k] = v
	}

	if c.Names != nil {
		dict := make([]string, 0, dictionarySize)
		for i := 0; i < dictionarySize; i++ {
			dict = append(dict, c.Names.Next())
		}
		out["identifierNamesGenerator"] = "dictionary"
		out["identifiersDictionary"] = dict
	}

	return out
}

// dictionarySize is the number of names rendered into one dictionary.
// The engine cycles the dictionary with numeric suffixes, so collisions
// within one file only require the names themselves to be distinct.
const dictionarySize = 120
