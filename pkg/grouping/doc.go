// Package grouping is the fingerprinting rule engine: it selects the first
// rule fully satisfied by an event, renders that rule's fingerprint
// template, and assembles the grouping variants handed to the downstream
// grouping pipeline.
//
// Evaluation is stateless per event and reads only an immutable config
// snapshot, so events may be evaluated concurrently without locking; rule
// reloads swap the snapshot atomically.
package grouping
