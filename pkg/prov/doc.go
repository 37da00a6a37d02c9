// Package prov maps an object graph onto a W3C PROV document.
//
// The mapping consumes an immutable snapshot of a project and produces a
// graph of typed nodes (entities, activities, agents) partitioned into
// bundles, plus typed relations between them. Projects, samples and files
// become entities. Programs become activities, but only once they have been
// executed. Environments and users become agents, deduplicated by content
// hash and identity string respectively.
//
// The package also renders the graph as PROV-N text and as a flat node and
// edge description for rendering backends. Both outputs are pure functions
// of the graph. Callers must not mutate the project while a mapping is in
// progress.
package prov
