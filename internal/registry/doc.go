// Package registry provides the central "glue" between a declarative
// analysis plan (internal/planconfig) and the dataflow frontend
// (internal/dataflow).
//
// A plan file refers to columns, selections and queries by a string kind
// ("read", "filter_gt", "sum", ...). The Registry is where those kinds are
// bound to the actual Go constructors that know how to build the
// corresponding dataflow node — the same role the module registry plays
// between a grid file's runner types and their compiled Go handlers in the
// teacher this engine is built from.
package registry
