// Package rule defines fingerprinting rules: conjunctions of attribute
// matchers that, when fully satisfied, bind an event to a custom
// fingerprint template.
package rule
