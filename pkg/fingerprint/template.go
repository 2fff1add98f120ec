package fingerprint

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/grouperdev/grouper/pkg/event"
	"github.com/grouperdev/grouper/pkg/yaml"
)

var (
	// ErrEmptyTemplate is returned when a template has no tokens.
	ErrEmptyTemplate = errors.New("empty fingerprint template")

	placeholderRE = regexp.MustCompile(`^\{\{\s*([a-zA-Z_][a-zA-Z0-9_-]*)\s*\}\}$`)
)

// Token is one entry of a fingerprint template: either a literal emitted
// verbatim, or a placeholder resolved from the event's attributes.
type Token struct {
	value       string
	placeholder bool
}

// IsPlaceholder reports whether the token is an attribute placeholder.
func (t Token) IsPlaceholder() bool {
	return t.placeholder
}

// Value returns the literal text, or the attribute name for placeholders.
func (t Token) Value() string {
	return t.value
}

// resolve renders the token against an event. Placeholders whose attribute
// is absent degrade to a `<no-name>` literal so the fingerprint keeps its
// shape.
func (t Token) resolve(ev *event.Event) string {
	if !t.placeholder {
		return t.value
	}

	if v, ok := ev.Get(t.value); ok {
		return v
	}

	return "<no-" + t.value + ">"
}

func parseToken(s string) (Token, error) {
	if m := placeholderRE.FindStringSubmatch(s); m != nil {
		return Token{value: m[1], placeholder: true}, nil
	}

	// A token that looks like a placeholder but doesn't parse as one is
	// almost certainly a typo, not an intended literal.
	if strings.HasPrefix(s, "{{") || strings.HasSuffix(s, "}}") {
		return Token{}, fmt.Errorf("malformed placeholder %q", s)
	}

	return Token{value: s}, nil
}

// Template is an ordered fingerprint template. Its wire form is a plain
// sequence of strings; entries of the form `{{ name }}` are placeholders.
type Template struct {
	tokens []Token

	// Values holds the raw template tokens.
	Values []string `json:"values" jsonschema:"title=Fingerprint Template"`
}

// NewTemplate creates a compiled template from raw tokens.
func NewTemplate(values ...string) (*Template, error) {
	t := &Template{Values: values}

	err := t.Compile()
	if err != nil {
		return nil, err
	}

	return t, nil
}

// MustNewTemplate creates a new template and panics if there's an error.
func MustNewTemplate(values ...string) *Template {
	t, err := NewTemplate(values...)
	if err != nil {
		panic(err)
	}

	return t
}

// Compile parses the raw tokens. It is idempotent.
func (t *Template) Compile() error {
	if t.tokens != nil {
		return nil
	}

	if len(t.Values) == 0 {
		return ErrEmptyTemplate
	}

	tokens := make([]Token, 0, len(t.Values))

	for i, v := range t.Values {
		tok, err := parseToken(v)
		if err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}

		tokens = append(tokens, tok)
	}

	t.tokens = tokens

	return nil
}

// Tokens returns the parsed tokens. The template must have been compiled.
func (t *Template) Tokens() []Token {
	if t.tokens == nil {
		panic(errors.New("template not compiled"))
	}

	return t.tokens
}

// Placeholders returns the attribute names referenced by the template, in
// order, with duplicates preserved.
func (t *Template) Placeholders() []string {
	var names []string

	for _, tok := range t.Tokens() {
		if tok.IsPlaceholder() {
			names = append(names, tok.Value())
		}
	}

	return names
}

// Render resolves the template against an event. Output order mirrors the
// template token order; missing attributes produce fallback literals,
// never errors.
func (t *Template) Render(ev *event.Event) Fingerprint {
	fp := make(Fingerprint, 0, len(t.Tokens()))

	for _, tok := range t.tokens {
		fp = append(fp, tok.resolve(ev))
	}

	return fp
}

func (t *Template) String() string {
	return strings.Join(t.Values, " ")
}

// UnmarshalYAML decodes the wire form, a sequence of strings.
func (t *Template) UnmarshalYAML(b []byte) error {
	var values []string

	err := yaml.Unmarshal(b, &values)
	if err != nil {
		return fmt.Errorf("decode fingerprint template: %w", err)
	}

	t.Values = values
	t.tokens = nil

	return nil
}

// MarshalYAML encodes the template back to its wire form.
func (t Template) MarshalYAML() (any, error) {
	return t.Values, nil
}

// JSONSchema describes the wire form for schema generation.
func (t Template) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "array",
		Title:    "Fingerprint Template",
		MinItems: ptr(uint64(1)),
		Items:    &jsonschema.Schema{Type: "string"},
	}
}

func ptr[T any](v T) *T {
	return &v
}
