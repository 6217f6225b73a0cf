// Package planconfig loads a declarative analysis plan from HCL and
// realizes it against a internal/registry.Registry and a
// internal/dataflow.Dataflow (spec.md §4 realized through SPEC_FULL.md's
// "Configuration" section). A plan is a flat list of column, selection
// and query blocks, each naming a kind the registry must have a builder
// for and, for columns and selections, the names of the already-declared
// nodes it depends on.
//
// This mirrors the teacher's internal/hcl_adapter.Loader: parse every HCL
// file under the given paths into one format-agnostic model, then
// translate that model's blocks, in this case directly into dataflow
// nodes via the registry rather than into a further config.Model layer —
// a plan has no separate "definition" vs "instance" split the way a grid
// file's runner types do.
package planconfig
