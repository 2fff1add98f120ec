package rule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/grouperdev/grouper/pkg/event"
	"github.com/grouperdev/grouper/pkg/expr"
	"github.com/grouperdev/grouper/pkg/fingerprint"
	"github.com/grouperdev/grouper/pkg/matcher"
)

// ErrNoMatchers is returned when a rule declares no matchers. Such a rule
// would match every event, which is never what a configuration author
// intended.
var ErrNoMatchers = errors.New("rule has no matchers")

// Rule binds an ordered matcher list to a fingerprint template. A rule is
// satisfied by an event iff every matcher is satisfied (and the optional
// CEL match expression, when present, returns true).
//
// Optional CEL expressions have access to:
//   - `attrs` (map<string, string>): The event's recognized attributes.
//
// They must return a boolean value:
//   - attrs["type"] == "DatabaseUnavailable" - exact attribute comparison
//   - glob(attrs["module"], "io.sentry.*") - glob matching, same semantics
//     as matcher patterns
//   - "function" in attrs && attrs["function"].startsWith("handle") -
//     presence checks combined with string functions
type Rule struct {
	matchProgram cel.Program // Compiled CEL program, nil when Match is empty.

	// Fingerprint is the template rendered when this rule wins.
	Fingerprint *fingerprint.Template `json:"fingerprint" jsonschema:"title=Fingerprint"`
	// Attributes is optional pass-through metadata attached to the rule.
	Attributes map[string]string `json:"attributes,omitempty" jsonschema:"title=Attributes"`
	// Match is an optional CEL expression evaluated after the matchers.
	Match string `json:"match,omitempty" jsonschema:"title=Match Expression"`
	// Matchers are the attribute predicates; all must be satisfied.
	Matchers []*matcher.Matcher `json:"matchers" jsonschema:"title=Matchers"`

	compiled bool
}

// Opt configures optional rule fields.
type Opt func(*Rule)

// WithMatch sets the optional CEL match expression.
func WithMatch(expression string) Opt {
	return func(r *Rule) {
		r.Match = expression
	}
}

// WithAttributes sets the rule's pass-through attribute metadata.
func WithAttributes(attrs map[string]string) Opt {
	return func(r *Rule) {
		r.Attributes = attrs
	}
}

// New creates a compiled rule.
func New(t *fingerprint.Template, ms []*matcher.Matcher, opts ...Opt) (*Rule, error) {
	r := &Rule{
		Fingerprint: t,
		Matchers:    ms,
	}
	for _, opt := range opts {
		opt(r)
	}

	err := r.Compile()
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", r.String(), err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(t *fingerprint.Template, ms []*matcher.Matcher, opts ...Opt) *Rule {
	r, err := New(t, ms, opts...)
	if err != nil {
		panic(err)
	}

	return r
}

// Compile compiles the rule's matchers, template, and optional match
// expression. It is idempotent.
func (r *Rule) Compile() error {
	if r.compiled {
		return nil
	}

	if len(r.Matchers) == 0 {
		return ErrNoMatchers
	}

	for i, m := range r.Matchers {
		err := m.Compile()
		if err != nil {
			return fmt.Errorf("matcher %d (%s): %w", i, m.Attribute, err)
		}
	}

	if r.Fingerprint == nil {
		return fingerprint.ErrEmptyTemplate
	}

	err := r.Fingerprint.Compile()
	if err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}

	if r.Match != "" && r.matchProgram == nil {
		env, err := expr.NewEnvironment(
			cel.Variable("attrs", cel.MapType(cel.StringType, cel.StringType)),
		)
		if err != nil {
			return fmt.Errorf("create CEL environment: %w", err)
		}

		program, err := env.Compile(r.Match)
		if err != nil {
			return fmt.Errorf("compile match expression: %w", err)
		}

		r.matchProgram = program
	}

	r.compiled = true

	return nil
}

// Matches evaluates the rule against an event. All matchers must be
// satisfied, in declaration order with short-circuiting, followed by the
// optional match expression. The rule must have been compiled.
func (r *Rule) Matches(ev *event.Event) bool {
	if !r.compiled {
		panic(errors.New("rule not compiled"))
	}

	for _, m := range r.Matchers {
		if !m.Matches(ev) {
			return false
		}
	}

	if r.matchProgram == nil {
		return true
	}

	result, _, err := r.matchProgram.Eval(map[string]any{
		"attrs": ev.Attributes(),
	})
	if err != nil {
		// If evaluation fails, consider it a non-match.
		return false
	}

	// Match expressions must return a boolean value.
	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	return false
}

// Render resolves the rule's fingerprint template against an event.
func (r *Rule) Render(ev *event.Event) fingerprint.Fingerprint {
	return r.Fingerprint.Render(ev)
}

func (r *Rule) String() string {
	parts := make([]string, 0, len(r.Matchers))
	for _, m := range r.Matchers {
		parts = append(parts, m.String())
	}

	if r.Match != "" {
		parts = append(parts, r.Match)
	}

	var fp string
	if r.Fingerprint != nil {
		fp = r.Fingerprint.String()
	}

	return fmt.Sprintf("%s -> %s", strings.Join(parts, " && "), fp)
}
