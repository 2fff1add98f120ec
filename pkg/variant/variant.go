package variant

import (
	"sort"

	"github.com/grouperdev/grouper/pkg/fingerprint"
)

// Kind discriminates the variant types. Each kind carries only the fields
// relevant to it, rather than one struct with many optional fields.
type Kind string

const (
	KindComponent         Kind = "component"
	KindCustomFingerprint Kind = "custom-fingerprint"
)

// Names of the variants the builder produces.
const (
	AppVariant               = "app"
	SystemVariant            = "system"
	CustomFingerprintVariant = "custom-fingerprint"
)

// PrecedenceHint explains why built-in variants stop contributing once a
// custom fingerprint rule has matched.
const PrecedenceHint = "custom fingerprint takes precedence"

// Variant is a single named grouping alternative.
type Variant interface {
	// Kind returns the variant's type tag.
	Kind() Kind
	// Contributes reports whether the variant determines the event's group.
	Contributes() bool
}

// Component is a built-in grouping variant derived from the event's
// components (frames, exception values, and so on) by the downstream
// grouping collaborator. Nil booleans mean the default contributing state;
// they are only populated when a rule match demotes the component.
type Component struct {
	Type Kind `json:"type" yaml:"type"`
	// Contributing is nil unless the component was explicitly demoted.
	Contributing *bool `json:"contributes,omitempty" yaml:"contributes,omitempty"`
	// SimilarityContributing reports whether the component still feeds
	// secondary similarity comparisons.
	SimilarityContributing *bool `json:"contributes_to_similarity,omitempty" yaml:"contributes_to_similarity,omitempty"`
	// Hint is a human-readable explanation for the demotion.
	Hint string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// NewComponent returns a component variant in its default contributing
// state.
func NewComponent() *Component {
	return &Component{Type: KindComponent}
}

// NewDemotedComponent returns a component variant that no longer
// contributes to grouping but is still considered for similarity.
func NewDemotedComponent(hint string) *Component {
	f := false
	t := true

	return &Component{
		Type:                   KindComponent,
		Contributing:           &f,
		SimilarityContributing: &t,
		Hint:                   hint,
	}
}

func (c *Component) Kind() Kind {
	return KindComponent
}

func (c *Component) Contributes() bool {
	return c.Contributing == nil || *c.Contributing
}

// ContributesToSimilarity reports whether the component feeds similarity
// comparisons even when it is not the primary grouping key.
func (c *Component) ContributesToSimilarity() bool {
	return c.SimilarityContributing == nil || *c.SimilarityContributing
}

// CustomFingerprint is the variant produced by a matching fingerprinting
// rule. It is implicitly the sole contributing variant; no explicit
// `contributes` field is serialized for it.
type CustomFingerprint struct {
	Type   Kind                    `json:"type" yaml:"type"`
	Values fingerprint.Fingerprint `json:"values" yaml:"values"`
}

// NewCustomFingerprint returns the variant carrying a rendered fingerprint.
func NewCustomFingerprint(fp fingerprint.Fingerprint) *CustomFingerprint {
	return &CustomFingerprint{
		Type:   KindCustomFingerprint,
		Values: fp,
	}
}

func (c *CustomFingerprint) Kind() Kind {
	return KindCustomFingerprint
}

func (c *CustomFingerprint) Contributes() bool {
	return true
}

// Variants maps variant names to their grouping alternatives.
type Variants map[string]Variant

// Contributing returns the sorted names of the variants that determine the
// event's group.
func (vs Variants) Contributing() []string {
	var names []string

	for name, v := range vs {
		if v.Contributes() {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// Build assembles the variant set for one evaluation.
//
// When a rule matched, the custom fingerprint becomes the sole contributing
// variant: the built-in components are demoted with [PrecedenceHint] but
// keep contributing to similarity. When no rule matched, the built-in
// components stay at their defaults and no custom variant exists.
func Build(matched bool, fp fingerprint.Fingerprint) Variants {
	if !matched {
		return Variants{
			AppVariant:    NewComponent(),
			SystemVariant: NewComponent(),
		}
	}

	return Variants{
		AppVariant:               NewDemotedComponent(PrecedenceHint),
		SystemVariant:            NewDemotedComponent(PrecedenceHint),
		CustomFingerprintVariant: NewCustomFingerprint(fp),
	}
}
