package grouping

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/grouperdev/grouper/pkg/event"
	"github.com/grouperdev/grouper/pkg/rule"
	"github.com/grouperdev/grouper/pkg/yaml"
)

// Version is the current rule file format version.
const Version = 1

// ValidVersions contains the rule file format versions this engine accepts.
var ValidVersions = []int{Version}

// Config is the immutable in-memory rule set. Build it once with
// [NewConfig] (or validate a decoded one with [Config.Validate]) and treat
// it as read-only afterwards; reloads swap whole configs via
// [Grouper.Swap], never mutate one in place.
type Config struct {
	// Version declares the rule file format version.
	Version int `json:"version,omitempty" jsonschema:"title=Version"`
	// Rules is the ordered rule list. Order is significant: the first rule
	// whose matchers are all satisfied wins and later rules are not
	// evaluated.
	Rules []*rule.Rule `json:"rules,omitempty" jsonschema:"title=Rules"`
}

// NewConfig creates a validated config.
func NewConfig(rules []*rule.Rule) (*Config, error) {
	c := &Config{
		Version: Version,
		Rules:   rules,
	}

	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// MustNewConfig creates a validated config and panics on error.
func MustNewConfig(rules []*rule.Rule) *Config {
	c, err := NewConfig(rules)
	if err != nil {
		panic(fmt.Sprintf("failed to create config: %v", err))
	}

	return c
}

// EnsureDefaults initializes unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Version == 0 {
		c.Version = Version
	}
}

// Validate compiles every rule and fails closed on the first problem, so a
// partially usable config is never activated. Errors carry the YAML path
// of the offending rule (`$.rules[i]`) for reporting against the source
// document. Unrecognized attribute names are not errors; they only warn,
// with a spelling suggestion when one exists, since such matchers simply
// never match.
func (c *Config) Validate() error {
	pb := yaml.NewPathBuilder()

	if !slices.Contains(ValidVersions, c.Version) {
		return yaml.NewError(
			fmt.Errorf("unsupported version %d (expected one of %v)", c.Version, ValidVersions),
			yaml.WithPath(pb.Root().Child("version").Build()),
		)
	}

	for i, r := range c.Rules {
		uIdx := uint(i) //nolint:gosec // G115: integer overflow conversion int -> uint.

		err := r.Compile()
		if err != nil {
			return yaml.NewError(
				fmt.Errorf("invalid rule: %w", err),
				yaml.WithPath(pb.Root().Child("rules").Index(uIdx).Build()),
			)
		}

		for _, m := range r.Matchers {
			warnUnknownAttribute(m.Attribute, i, "matcher")
		}

		for _, name := range r.Fingerprint.Placeholders() {
			warnUnknownAttribute(name, i, "placeholder")
		}
	}

	return nil
}

// Select returns the first rule fully satisfied by the event, or nil when
// none matches. Absence of a match is a normal outcome, not an error.
//
// The contract is a short-circuiting linear scan in declaration order. Any
// future optimization (e.g. pre-filtering rules by attribute) must
// preserve the first-match-wins semantics.
func (c *Config) Select(ev *event.Event) *rule.Rule {
	for _, r := range c.Rules {
		if r.Matches(ev) {
			return r
		}
	}

	return nil
}

func warnUnknownAttribute(name string, ruleIdx int, where string) {
	if event.IsKnown(name) {
		return
	}

	logger := slog.With(
		slog.String("attribute", name),
		slog.String("in", where),
		slog.Int("rule", ruleIdx),
	)
	if s := event.Suggest(name); s != "" {
		logger = logger.With(slog.String("suggestion", s))
	}

	logger.Warn("unrecognized attribute name, will never match")
}
