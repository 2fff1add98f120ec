package fingerprint

import (
	"strings"
)

// Fingerprint is the ordered sequence of resolved string values that forms
// an event's grouping key.
type Fingerprint []string

// Default is the sentinel fingerprint reported when no rule matched. The
// downstream grouping collaborator expands it to its built-in grouping
// strategy.
var Default = Fingerprint{"{{ default }}"}

// IsDefault reports whether f is the default sentinel.
func (f Fingerprint) IsDefault() bool {
	return len(f) == 1 && f[0] == Default[0]
}

func (f Fingerprint) String() string {
	return strings.Join(f, " ")
}
