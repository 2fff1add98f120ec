package event

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/grouperdev/grouper/pkg/yaml"
)

// Attribute names recognized by the engine. Matchers and fingerprint
// placeholders may only refer to these; anything else is treated as an
// absent attribute.
const (
	AttrType     = "type"
	AttrValue    = "value"
	AttrModule   = "module"
	AttrFunction = "function"
	AttrPackage  = "package"
	AttrPath     = "path"
	AttrCulprit  = "culprit"
)

// KnownAttributes lists every recognized attribute name.
var KnownAttributes = []string{
	AttrType,
	AttrValue,
	AttrModule,
	AttrFunction,
	AttrPackage,
	AttrPath,
	AttrCulprit,
}

// IsKnown reports whether name is a recognized attribute name.
func IsKnown(name string) bool {
	return slices.Contains(KnownAttributes, name)
}

// Suggest returns the closest known attribute name for a misspelled one,
// or an empty string if nothing is close enough to be useful.
func Suggest(name string) string {
	matches := fuzzy.Find(name, KnownAttributes)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// Event is a single error/exception event, reduced to the sparse string
// attributes the upstream extraction pipeline produced for it. Events are
// read-only once constructed.
type Event struct {
	attrs map[string]string
}

// New creates an [*Event] from an attribute map. The map is copied, so the
// caller may reuse it.
func New(attrs map[string]string) *Event {
	cp := make(map[string]string, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}

	return &Event{attrs: cp}
}

// FromDocument decodes an event from a YAML or JSON document holding a flat
// mapping of attribute names to string values. Unrecognized keys are kept
// but never visible through [Event.Get]; a debug log notes them, with a
// spelling suggestion when one exists.
func FromDocument(data []byte) (*Event, error) {
	attrs := map[string]string{}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	err := dec.Decode(&attrs)
	if err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	for name := range attrs {
		if IsKnown(name) {
			continue
		}

		logger := slog.With(slog.String("attribute", name))
		if s := Suggest(name); s != "" {
			logger = logger.With(slog.String("suggestion", s))
		}

		logger.Debug("unrecognized event attribute")
	}

	return New(attrs), nil
}

// Get returns the value of a recognized attribute. Absent values and
// unrecognized names both report ok=false.
func (e *Event) Get(name string) (string, bool) {
	if e == nil || !IsKnown(name) {
		return "", false
	}

	v, ok := e.attrs[name]

	return v, ok
}

// Attributes returns a copy of the recognized attributes, for use as
// expression evaluation input.
func (e *Event) Attributes() map[string]string {
	out := make(map[string]string, len(e.attrs))

	for k, v := range e.attrs {
		if IsKnown(k) {
			out[k] = v
		}
	}

	return out
}
