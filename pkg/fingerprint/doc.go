// Package fingerprint implements fingerprint templates and their rendered
// values. A template is an ordered mix of literal tokens and `{{ name }}`
// placeholders; rendering it against an event yields the grouping key.
package fingerprint
