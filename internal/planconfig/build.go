package planconfig

import (
	"fmt"

	"github.com/colflow/colflow/internal/dataflow"
	"github.com/colflow/colflow/internal/registry"
)

// Built is the realized form of a Plan: every column, selection and query
// it declared, by name, bound into df.
type Built struct {
	Columns    map[string]dataflow.LazyColumn[float64]
	Selections map[string]dataflow.LazySelection
	Queries    map[string]registry.Query

	// QueryOrder preserves the plan's declaration order, for reporting
	// (spec.md §6 "report(analysis, results)" wants a stable order, not a
	// map's undefined one).
	QueryOrder []string
}

// Build realizes plan against df using reg's named kinds. Columns and
// selections must be declared after everything they depend on — Build
// does not reorder a plan's blocks, matching dataflow's own requirement
// that a builder only reference already-built nodes (spec.md §4.2).
func Build(df *dataflow.Dataflow, reg *registry.Registry, plan *Plan) (*Built, error) {
	out := &Built{
		Columns:    make(map[string]dataflow.LazyColumn[float64]),
		Selections: make(map[string]dataflow.LazySelection),
		Queries:    make(map[string]registry.Query),
	}

	for _, block := range plan.Columns {
		if _, exists := out.Columns[block.Name]; exists {
			return nil, fmt.Errorf("planconfig: duplicate column name %q", block.Name)
		}
		builder, ok := reg.Columns[block.Kind]
		if !ok {
			return nil, fmt.Errorf("planconfig: column %q: unknown kind %q", block.Name, block.Kind)
		}
		deps, err := resolveColumnDeps(out, block.Name, block.DependsOn)
		if err != nil {
			return nil, err
		}
		args, err := decodeArgs(block.Arguments, builder.NewArgs)
		if err != nil {
			return nil, fmt.Errorf("planconfig: column %q: %w", block.Name, err)
		}
		col, err := builder.Build(df, args, deps)
		if err != nil {
			return nil, fmt.Errorf("planconfig: column %q: %w", block.Name, err)
		}
		out.Columns[block.Name] = col
	}

	for _, block := range plan.Selections {
		if _, exists := out.Selections[block.Name]; exists {
			return nil, fmt.Errorf("planconfig: duplicate selection name %q", block.Name)
		}
		builder, ok := reg.Selections[block.Kind]
		if !ok {
			return nil, fmt.Errorf("planconfig: selection %q: unknown kind %q", block.Name, block.Kind)
		}
		parent := dataflow.NoParent
		if block.Parent != "" {
			p, ok := out.Selections[block.Parent]
			if !ok {
				return nil, fmt.Errorf("planconfig: selection %q: parent %q not yet declared", block.Name, block.Parent)
			}
			parent = p
		}
		deps, err := resolveColumnDeps(out, block.Name, block.DependsOn)
		if err != nil {
			return nil, err
		}
		args, err := decodeArgs(block.Arguments, builder.NewArgs)
		if err != nil {
			return nil, fmt.Errorf("planconfig: selection %q: %w", block.Name, err)
		}
		sel, err := builder.Build(df, parent, block.Name, args, deps)
		if err != nil {
			return nil, fmt.Errorf("planconfig: selection %q: %w", block.Name, err)
		}
		out.Selections[block.Name] = sel
	}

	for _, block := range plan.Queries {
		if _, exists := out.Queries[block.Name]; exists {
			return nil, fmt.Errorf("planconfig: duplicate query name %q", block.Name)
		}
		builder, ok := reg.Queries[block.Kind]
		if !ok {
			return nil, fmt.Errorf("planconfig: query %q: unknown kind %q", block.Name, block.Kind)
		}
		sel, ok := out.Selections[block.Selection]
		if !ok {
			return nil, fmt.Errorf("planconfig: query %q: selection %q not declared", block.Name, block.Selection)
		}
		var fill *dataflow.LazyColumn[float64]
		if block.Fill != "" {
			col, ok := out.Columns[block.Fill]
			if !ok {
				return nil, fmt.Errorf("planconfig: query %q: fill column %q not declared", block.Name, block.Fill)
			}
			fill = &col
		}
		args, err := decodeArgs(block.Arguments, builder.NewArgs)
		if err != nil {
			return nil, fmt.Errorf("planconfig: query %q: %w", block.Name, err)
		}
		q, err := builder.Build(df, sel, args, fill)
		if err != nil {
			return nil, fmt.Errorf("planconfig: query %q: %w", block.Name, err)
		}
		out.Queries[block.Name] = q
		out.QueryOrder = append(out.QueryOrder, block.Name)
	}

	return out, nil
}

func resolveColumnDeps(out *Built, owner string, names []string) (map[string]dataflow.LazyColumn[float64], error) {
	deps := make(map[string]dataflow.LazyColumn[float64], len(names))
	for _, name := range names {
		col, ok := out.Columns[name]
		if !ok {
			return nil, fmt.Errorf("planconfig: %q depends on %q, which is not yet declared", owner, name)
		}
		deps[name] = col
	}
	return deps, nil
}
