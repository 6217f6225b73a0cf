package registry

import (
	"fmt"

	"github.com/colflow/colflow/internal/builtinquery"
	"github.com/colflow/colflow/internal/dataflow"
)

// Builtins returns a Registry populated with the column, selection and
// query kinds a plan can reference without any Go code of its own: a
// small, fixed vocabulary covering spec.md §8's scenarios (reading,
// scaling/combining, thresholding, weighting, counting/summing/
// collecting). A host program is free to build its own Registry and
// register additional kinds instead, the same way the teacher's modules
// register additional runners alongside its built-in ones.
func Builtins() *Registry {
	r := New()
	registerBuiltinColumns(r)
	registerBuiltinSelections(r)
	registerBuiltinQueries(r)
	return r
}

func dep(deps map[string]dataflow.LazyColumn[float64], name string) (dataflow.LazyColumn[float64], error) {
	c, ok := deps[name]
	if !ok {
		return dataflow.LazyColumn[float64]{}, fmt.Errorf("registry: column %q not found among dependencies", name)
	}
	return c, nil
}

func registerBuiltinColumns(r *Registry) {
	r.RegisterColumn("read", ColumnBuilder{
		NewArgs: func() any { return &ReadArgs{} },
		Build: func(df *dataflow.Dataflow, args any, _ map[string]dataflow.LazyColumn[float64]) (dataflow.LazyColumn[float64], error) {
			a := args.(*ReadArgs)
			return dataflow.Read[float64](df, a.Name), nil
		},
	})

	r.RegisterColumn("const", ColumnBuilder{
		NewArgs: func() any { return &ConstArgs{} },
		Build: func(df *dataflow.Dataflow, args any, _ map[string]dataflow.LazyColumn[float64]) (dataflow.LazyColumn[float64], error) {
			a := args.(*ConstArgs)
			return dataflow.Const(df, a.Value), nil
		},
	})

	r.RegisterColumn("scale", ColumnBuilder{
		NewArgs: func() any { return &ScaleArgs{} },
		Build: func(df *dataflow.Dataflow, args any, deps map[string]dataflow.LazyColumn[float64]) (dataflow.LazyColumn[float64], error) {
			a := args.(*ScaleArgs)
			src, err := dep(deps, a.Source)
			if err != nil {
				return dataflow.LazyColumn[float64]{}, err
			}
			return dataflow.Define[float64](df, func(v float64) float64 { return v * a.Factor }).Call(src)
		},
	})

	r.RegisterColumn("sum_cols", ColumnBuilder{
		NewArgs: func() any { return &SumColsArgs{} },
		Build: func(df *dataflow.Dataflow, args any, deps map[string]dataflow.LazyColumn[float64]) (dataflow.LazyColumn[float64], error) {
			a := args.(*SumColsArgs)
			colA, err := dep(deps, a.A)
			if err != nil {
				return dataflow.LazyColumn[float64]{}, err
			}
			colB, err := dep(deps, a.B)
			if err != nil {
				return dataflow.LazyColumn[float64]{}, err
			}
			return dataflow.Define[float64](df, func(x, y float64) float64 { return x + y }).Call(colA, colB)
		},
	})
}

func registerBuiltinSelections(r *Registry) {
	r.RegisterSelection("filter_gt", SelectionBuilder{
		NewArgs: func() any { return &ThresholdArgs{} },
		Build: func(df *dataflow.Dataflow, parent dataflow.LazySelection, name string, args any, deps map[string]dataflow.LazyColumn[float64]) (dataflow.LazySelection, error) {
			a := args.(*ThresholdArgs)
			col, err := dep(deps, a.Column)
			if err != nil {
				return dataflow.LazySelection{}, err
			}
			threshold := a.Threshold
			decision := func(v float64) float64 {
				if v > threshold {
					return 1
				}
				return 0
			}
			return dataflow.Filter(df, parent, name, decision).Call(col)
		},
	})

	r.RegisterSelection("filter_lt", SelectionBuilder{
		NewArgs: func() any { return &ThresholdArgs{} },
		Build: func(df *dataflow.Dataflow, parent dataflow.LazySelection, name string, args any, deps map[string]dataflow.LazyColumn[float64]) (dataflow.LazySelection, error) {
			a := args.(*ThresholdArgs)
			col, err := dep(deps, a.Column)
			if err != nil {
				return dataflow.LazySelection{}, err
			}
			threshold := a.Threshold
			decision := func(v float64) float64 {
				if v < threshold {
					return 1
				}
				return 0
			}
			return dataflow.Filter(df, parent, name, decision).Call(col)
		},
	})

	r.RegisterSelection("weight_scale", SelectionBuilder{
		NewArgs: func() any { return &ColumnArgs{} },
		Build: func(df *dataflow.Dataflow, parent dataflow.LazySelection, name string, args any, deps map[string]dataflow.LazyColumn[float64]) (dataflow.LazySelection, error) {
			a := args.(*ColumnArgs)
			col, err := dep(deps, a.Column)
			if err != nil {
				return dataflow.LazySelection{}, err
			}
			return dataflow.Weight(df, parent, name, func(v float64) float64 { return v }).Call(col)
		},
	})
}

func registerBuiltinQueries(r *Registry) {
	r.RegisterQuery("count", QueryBuilder{
		NewArgs: func() any { return &struct{}{} },
		Build: func(df *dataflow.Dataflow, sel dataflow.LazySelection, _ any, _ *dataflow.LazyColumn[float64]) (Query, error) {
			q := dataflow.Make[int64, *builtinquery.Count](df, builtinquery.NewCount).Book(sel, df.Normalize())
			return Erase(q), nil
		},
	})

	r.RegisterQuery("sum", QueryBuilder{
		NewArgs: func() any { return &struct{}{} },
		Build: func(df *dataflow.Dataflow, sel dataflow.LazySelection, _ any, fill *dataflow.LazyColumn[float64]) (Query, error) {
			if fill == nil {
				return nil, fmt.Errorf("registry: query kind %q requires a fill column", "sum")
			}
			q := dataflow.Make[float64, *builtinquery.Sum](df, builtinquery.NewSum).Fill(*fill).Book(sel, df.Normalize())
			return Erase(q), nil
		},
	})

	r.RegisterQuery("collect", QueryBuilder{
		NewArgs: func() any { return &struct{}{} },
		Build: func(df *dataflow.Dataflow, sel dataflow.LazySelection, _ any, fill *dataflow.LazyColumn[float64]) (Query, error) {
			if fill == nil {
				return nil, fmt.Errorf("registry: query kind %q requires a fill column", "collect")
			}
			q := dataflow.Make[[]any, *builtinquery.Collect](df, builtinquery.NewCollect).Fill(*fill).Book(sel, df.Normalize())
			return Erase(q), nil
		},
	})
}

// Argument structs for the builtin kinds, decoded from a plan block's
// `arguments` body by internal/planconfig via gohcl.

type ReadArgs struct {
	Name string `hcl:"name"`
}

type ConstArgs struct {
	Value float64 `hcl:"value"`
}

type ScaleArgs struct {
	Source string  `hcl:"source"`
	Factor float64 `hcl:"factor"`
}

type SumColsArgs struct {
	A string `hcl:"a"`
	B string `hcl:"b"`
}

type ThresholdArgs struct {
	Column    string  `hcl:"column"`
	Threshold float64 `hcl:"threshold"`
}

type ColumnArgs struct {
	Column string `hcl:"column"`
}
