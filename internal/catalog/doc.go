// Package catalog is the command registry of the shell.
//
// The Catalog stores every command with its option schema, its class and its
// bound execute function, together with the dependency graph between
// commands. It is populated once at startup by the stage modules and then
// consulted by the shell on every invocation.
//
// Commands and classes are addressed by small integer handles handed out in
// registration order. A command may only depend on handles allocated before its
// own, which keeps the dependency graph acyclic without a separate check.
package catalog
