package variant

import (
	"sort"

	"github.com/goccy/go-yaml"
)

// MarshalYAML emits variants ordered by name, so repeated evaluations of
// the same (config, event) pair serialize byte-identically.
func (vs Variants) MarshalYAML() (any, error) {
	names := make([]string, 0, len(vs))
	for name := range vs {
		names = append(names, name)
	}

	sort.Strings(names)

	ms := make(yaml.MapSlice, 0, len(names))
	for _, name := range names {
		ms = append(ms, yaml.MapItem{Key: name, Value: vs[name]})
	}

	return ms, nil
}
