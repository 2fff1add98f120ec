// Package matcher implements the attribute-pattern predicates that make up
// a fingerprinting rule's match list.
package matcher
