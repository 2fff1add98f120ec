// Package config loads fingerprinting rule files. Loading validates the
// document against an embedded JSON schema, decodes it, and compiles every
// rule before anything is activated; it also provides file watching for
// atomic rule reloads.
package config
