package planconfig

import "github.com/hashicorp/hcl/v2"

// argsBlock captures an `arguments { ... }` block's raw body, decoded
// later against whichever registry builder's NewArgs the block's kind
// resolves to (spec.md §7.1 "Arity/type mismatches are reported
// synchronously" — decoding happens at plan-build time, before any row is
// read).
type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// columnBlock declares one named float64 column (spec.md §3 "Reader[T]",
// "Constant[T]", definitions).
type columnBlock struct {
	Name      string     `hcl:"name,label"`
	Kind      string     `hcl:"kind"`
	DependsOn []string   `hcl:"depends_on,optional"`
	Arguments *argsBlock `hcl:"arguments,block"`
}

// selectionBlock declares one named selection (spec.md §4.4). Parent is
// "" for a root-level selection, otherwise an already-declared
// selection's name.
type selectionBlock struct {
	Name      string     `hcl:"name,label"`
	Kind      string     `hcl:"kind"`
	Parent    string     `hcl:"parent,optional"`
	DependsOn []string   `hcl:"depends_on,optional"`
	Arguments *argsBlock `hcl:"arguments,block"`
}

// queryBlock declares one named query booked against a selection,
// optionally filled from one column (spec.md §4.5).
type queryBlock struct {
	Name      string     `hcl:"name,label"`
	Kind      string     `hcl:"kind"`
	Selection string     `hcl:"selection"`
	Fill      string     `hcl:"fill,optional"`
	Arguments *argsBlock `hcl:"arguments,block"`
}

// file is every top-level block a plan file may contain.
type file struct {
	Columns    []*columnBlock    `hcl:"column,block"`
	Selections []*selectionBlock `hcl:"selection,block"`
	Queries    []*queryBlock     `hcl:"query,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

// Plan is the parsed, merged form of every file loaded by Load — a flat,
// not-yet-validated-against-any-registry list of declarations, analogous
// to the teacher's config.Model sitting between hcl_adapter.Loader and
// the executor.
type Plan struct {
	Columns    []*columnBlock
	Selections []*selectionBlock
	Queries    []*queryBlock
}
