// Package event models the attribute view of an error event that the
// grouping engine consumes. Parsing raw exceptions into attributes happens
// upstream; here an event is just a sparse, immutable set of named string
// values.
package event
