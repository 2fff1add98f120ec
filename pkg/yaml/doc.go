// Package yaml wraps [github.com/goccy/go-yaml] with the decoding defaults,
// positional error reporting, and JSON schema tooling used by the rest of
// the module. Rule files and events are both parsed through this package,
// so validation errors can always point back at a line in the source.
package yaml
