// Package dag holds the command dependency graph: one node per registered
// command handle and one edge per "must have succeeded before" relation.
//
// The graph itself accepts any edge between existing nodes except a self edge.
// Acyclicity is guaranteed by the catalog, which only lets a command depend on
// handles allocated before its own; DetectCycles exists so tests can prove it.
package dag
