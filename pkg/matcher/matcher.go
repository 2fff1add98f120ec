package matcher

import (
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/grouperdev/grouper/pkg/event"
	"github.com/grouperdev/grouper/pkg/yaml"
)

// Matcher is a predicate over a single named event attribute. It is
// satisfied iff the attribute is present and its value matches the
// pattern. Unrecognized attribute names never match and never error;
// attribute sets vary by event type and a rule written for one type must
// silently pass over the others.
type Matcher struct {
	pattern *Pattern

	// Attribute is the event attribute name to test.
	Attribute string `json:"attribute" jsonschema:"title=Attribute Name"`
	// Pattern is the glob pattern the attribute value must match.
	Pattern string `json:"pattern" jsonschema:"title=Pattern"`
}

// New creates a compiled matcher.
func New(attribute, pattern string) (*Matcher, error) {
	m := &Matcher{
		Attribute: attribute,
		Pattern:   pattern,
	}

	err := m.Compile()
	if err != nil {
		return nil, fmt.Errorf("matcher %q: %w", attribute, err)
	}

	return m, nil
}

// MustNew creates a new matcher and panics if there's an error.
func MustNew(attribute, pattern string) *Matcher {
	m, err := New(attribute, pattern)
	if err != nil {
		panic(err)
	}

	return m
}

// Compile compiles the matcher's pattern. It is idempotent.
func (m *Matcher) Compile() error {
	if m.pattern != nil {
		return nil
	}

	p, err := CompilePattern(m.Pattern)
	if err != nil {
		return fmt.Errorf("compile pattern: %w", err)
	}

	m.pattern = p

	return nil
}

// Matches evaluates the matcher against an event. The matcher must have
// been compiled first.
func (m *Matcher) Matches(ev *event.Event) bool {
	if m.pattern == nil {
		panic(errors.New("matcher missing a compiled pattern"))
	}

	value, ok := ev.Get(m.Attribute)
	if !ok {
		return false
	}

	return m.pattern.Match(value)
}

func (m *Matcher) String() string {
	return fmt.Sprintf("%s == %s", m.Attribute, m.Pattern)
}

// UnmarshalYAML decodes the wire form of a matcher, a two element
// sequence: `[attributeName, pattern]`.
func (m *Matcher) UnmarshalYAML(b []byte) error {
	var pair []string

	err := yaml.Unmarshal(b, &pair)
	if err != nil {
		return fmt.Errorf("decode matcher: %w", err)
	}

	if len(pair) != 2 {
		return fmt.Errorf("matcher must be an [attribute, pattern] pair, got %d elements", len(pair))
	}

	m.Attribute = pair[0]
	m.Pattern = pair[1]

	return nil
}

// MarshalYAML encodes the matcher back to its wire form.
func (m Matcher) MarshalYAML() (any, error) {
	return []string{m.Attribute, m.Pattern}, nil
}

// JSONSchema describes the wire form for schema generation.
func (m Matcher) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "array",
		Title:    "Matcher",
		MinItems: ptr(uint64(2)),
		MaxItems: ptr(uint64(2)),
		Items:    &jsonschema.Schema{Type: "string"},
	}
}

func ptr[T any](v T) *T {
	return &v
}
