// Package model holds the typed object graph of a bioinformatics workflow:
// a Project owning Samples, Files, and Programs, Programs owning Runs, and
// Runs referencing the Environment they executed in.
//
// The graph is the unit everything else operates on. It is mutated through
// accessor operations that enforce name uniqueness within each container
// (no silent overwrites), serialized by package document, and compiled into
// a provenance document by package prov.
//
// # Ownership
//
// Samples belong to exactly one Project. Files and Programs belong to either
// the Project (cross-sample artifacts) or exactly one Sample, never both.
// Children keep a back-reference to their owner as a lookup aid; the
// reference is never traversed when serializing or computing ownership, so
// the graph stays acyclic for all traversal purposes.
//
// # Concurrency
//
// The graph is single-threaded by design: one logical workflow mutates it at
// a time, and the provenance mapper must only see a quiescent graph. The
// only synchronization primitive is the per-sample session used to scope a
// run-and-associate sequence (see [Sample.Session]).
package model
