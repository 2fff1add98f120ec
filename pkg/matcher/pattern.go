package matcher

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyPattern is returned when a pattern has no content.
var ErrEmptyPattern = errors.New("empty pattern")

// Pattern matches a full attribute value. Literal patterns compare with
// string equality. Patterns containing wildcards are compiled to an
// anchored regular expression where `*` matches any run of characters
// (including none) and `?` matches exactly one. Matching is always
// case-sensitive.
//
// The anchoring means `io.sentry.example.*` matches
// `io.sentry.example.Foo` but not `io.sentry.other.Foo`, and a bare `foo`
// never matches `foobar`.
type Pattern struct {
	re  *regexp.Regexp // nil for literal patterns
	raw string
}

// CompilePattern compiles a glob pattern.
func CompilePattern(raw string) (*Pattern, error) {
	if raw == "" {
		return nil, ErrEmptyPattern
	}

	p := &Pattern{raw: raw}

	if !strings.ContainsAny(raw, "*?") {
		return p, nil
	}

	var sb strings.Builder

	sb.WriteString("^")

	for _, r := range raw {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, err //nolint:wrapcheck // Message already names the pattern.
	}

	p.re = re

	return p, nil
}

// Match reports whether value matches the full pattern.
func (p *Pattern) Match(value string) bool {
	if p.re == nil {
		return p.raw == value
	}

	return p.re.MatchString(value)
}

func (p *Pattern) String() string {
	return p.raw
}
