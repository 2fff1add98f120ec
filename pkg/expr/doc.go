// Package expr wraps CEL (Common Expression Language) compilation for the
// optional per-rule match expressions.
package expr
