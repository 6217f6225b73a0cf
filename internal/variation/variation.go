// Package variation implements the systematic-variation layer (spec.md
// §4.8): a "varied" wrapper holding a nominal node plus a named set of
// alternative nodes, and the composition rule that lets every frontend
// operation lift from nominal arguments to varied ones by zipping over the
// union of variation names. This package is deliberately generic and
// knows nothing about columns, selections or queries — internal/dataflow
// specializes it for each of those (spec.md §9 "Varied as functor").
package variation

import (
	"fmt"
	"sort"
)

// Named is implemented by any Varied[T]; it lets heterogeneous varied
// arguments (e.g. Varied[LazyColumn[int64]] and Varied[LazyColumn[string]])
// be collected into one slice so Union can compute the name set across
// them without knowing their T (spec.md §4.8 "the set of variation names
// is the union across arguments").
type Named interface {
	VariationNames() []string
}

// Varied wraps a nominal T plus zero or more named alternative T's (spec.md
// §3 "Variation universe"). The zero value is a nominal-only wrapper
// around T's zero value; callers normally construct one via Of.
type Varied[T any] struct {
	nominal T
	named   map[string]T
}

// Of wraps a nominal-only node carrying no variations (spec.md §4.8
// "Nominal ∘ nominal = nominal").
func Of[T any](nominal T) Varied[T] {
	return Varied[T]{nominal: nominal}
}

// Nominal returns the wrapped nominal node.
func (v Varied[T]) Nominal() T { return v.nominal }

// IsVaried reports whether v carries at least one named variation.
func (v Varied[T]) IsVaried() bool { return len(v.named) > 0 }

// VariationNames returns the sorted set of variation names v carries,
// excluding the implicit "nominal" universe.
func (v Varied[T]) VariationNames() []string {
	names := make([]string, 0, len(v.named))
	for name := range v.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variation returns the node registered under name, falling back to the
// nominal node when v has no variation under that name (spec.md §7.3
// "reading a varied result by a name that does not exist returns the
// nominal result — propagation rule, not an error").
func (v Varied[T]) Variation(name string) T {
	if t, ok := v.named[name]; ok {
		return t
	}
	return v.nominal
}

// With returns a copy of v with name bound to node (spec.md §4.8
// "vary(name, args…) ... constructs an alternative node under name while
// keeping the original as nominal"). Re-using a name already set on v is
// a construction error (spec.md §7.1 "attempt to set a variation on an
// already-varied node under an existing name").
func (v Varied[T]) With(name string, node T) (Varied[T], error) {
	if _, exists := v.named[name]; exists {
		return Varied[T]{}, fmt.Errorf("variation: %q is already set", name)
	}
	next := Varied[T]{nominal: v.nominal, named: make(map[string]T, len(v.named)+1)}
	for k, val := range v.named {
		next.named[k] = val
	}
	next.named[name] = node
	return next, nil
}

// Union returns the sorted, deduplicated union of variation names across
// every argument (spec.md §8 "variation propagation: list_variation_names()
// = union of args' list_variation_names()").
func Union(args ...Named) []string {
	seen := make(map[string]bool)
	for _, a := range args {
		for _, name := range a.VariationNames() {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
