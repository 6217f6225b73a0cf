// Package dataflow is the frontend of the engine (spec.md §4.7): it turns
// the declarative define/filter/make calls a caller writes into a
// dependency-ordered graph of node builders, then realizes that graph once
// per slot — in lockstep, via internal/concurrent's scheduling — and
// exposes query results lazily, triggering the single pass on first access.
//
// Construction (Define/Filter/Make, and their Todo.Call/Book counterparts)
// never touches the dataset: it only records, per node, a closure that
// knows how to build that node's per-slot instance from already-built
// dependencies and the slot's open reader. Run walks those closures once
// per slot, in the order they were recorded, which is exactly the
// dependency order spec.md §4.2 requires since a builder can only close
// over Lazy handles that already exist.
package dataflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/concurrent"
	"github.com/colflow/colflow/internal/ctxlog"
	"github.com/colflow/colflow/internal/dataset"
	"github.com/colflow/colflow/internal/rangeset"
	"github.com/colflow/colflow/internal/selection"
)

// Dataflow owns the node-builder graph, the configured concurrency, and —
// after the first Run — the per-slot realized results used to answer
// query results (spec.md §3 "Slot", §5 "Resource lifetimes").
type Dataflow struct {
	ds        dataset.Dataset
	width     int
	mode      concurrent.Mode
	modeSet   bool
	normalize float64

	shapeCutflow *selection.Cutflow
	pathToIdx    map[string]int

	// variantShapeCutflow/variantPathToIdx mirror shapeCutflow/pathToIdx
	// one-per-variation-universe (spec.md §4.8 "each universe has its own
	// column/selection/query replicas"): a selection named "A" in universe
	// "shift" does not collide with a selection named "A" in the nominal
	// tree or in universe "smear", since each universe's cutflow is an
	// independent tree. Created lazily on first use by shapeFor.
	variantShapeCutflow map[string]*selection.Cutflow
	variantPathToIdx    map[string]map[string]int

	mu           sync.Mutex
	nodeBuilders []nodeBuilder
	analyzed     bool
	activeWidth  int
	slotResults  [][]action.Action
	mergedCache  map[int]any
}

// nodeBuilder realizes one slot's instance of a graph node from the
// slot's runtime (its reader, its cutflow, and earlier nodes' results).
type nodeBuilder func(rt *slotRuntime) (action.Action, error)

// slotRuntime is the per-slot, per-materialization context a node builder
// runs against. results is filled in node order as builders run, so a
// builder for node i may only read results[j] for j<i.
type slotRuntime struct {
	slot    int
	rng     rangeset.Range
	reader  dataset.Reader
	cutflow *selection.Cutflow
	results []action.Action

	// variantCutflow holds one real per-row Cutflow per variation universe
	// this slot has built a selection in, mirroring variantShapeCutflow
	// but at materialization time (spec.md §4.8 "each universe has its own
	// ... selection ... replicas"). Created lazily by cutflowFor.
	variantCutflow map[string]*selection.Cutflow
}

func (rt *slotRuntime) at(idx int) action.Action { return rt.results[idx] }

// cutflowFor returns this slot's real Cutflow for universe ("" selects the
// nominal cutflow every non-varied selection already uses).
func (rt *slotRuntime) cutflowFor(universe string) *selection.Cutflow {
	if universe == "" {
		return rt.cutflow
	}
	if rt.variantCutflow == nil {
		rt.variantCutflow = make(map[string]*selection.Cutflow)
	}
	cf, ok := rt.variantCutflow[universe]
	if !ok {
		cf = selection.NewCutflow()
		rt.variantCutflow[universe] = cf
	}
	return cf
}

// Option configures a Dataflow at construction.
type Option func(*Dataflow)

// WithConcurrency sets the slot count N (spec.md §6 "multithread::enable(N)").
// N<=1 is sequential with a single slot.
func WithConcurrency(n int) Option {
	return func(df *Dataflow) {
		if n < 1 {
			n = 1
		}
		df.width = n
	}
}

// WithMode overrides the default scheduling policy (spec.md §4.6
// "Scheduling"). The default is concurrent.Threaded when width>1,
// concurrent.Sequential otherwise.
func WithMode(m concurrent.Mode) Option {
	return func(df *Dataflow) { df.mode = m; df.modeSet = true }
}

// New creates an empty dataflow over ds. ds's Normalizer, if implemented,
// supplies the default per-query normalization scalar (spec.md §6).
func New(ds dataset.Dataset, opts ...Option) *Dataflow {
	df := &Dataflow{
		ds:                  ds,
		width:               1,
		normalize:           1.0,
		shapeCutflow:        selection.NewCutflow(),
		pathToIdx:           make(map[string]int),
		variantShapeCutflow: make(map[string]*selection.Cutflow),
		variantPathToIdx:    make(map[string]map[string]int),
		mergedCache:         make(map[int]any),
	}
	if n, ok := ds.(dataset.Normalizer); ok {
		df.normalize = n.Normalize()
	}
	for _, o := range opts {
		o(df)
	}
	if !df.modeSet && df.width > 1 {
		df.mode = concurrent.Threaded
	}
	return df
}

// Normalize returns the dataset-supplied (or default 1.0) normalization
// scalar new queries are booked with unless overridden.
func (df *Dataflow) Normalize() float64 { return df.normalize }

// shapeFor returns the construction-time shape cutflow and path index for
// universe ("" selects the nominal tree), creating a fresh, independent
// tree for a universe seen for the first time.
func (df *Dataflow) shapeFor(universe string) (*selection.Cutflow, map[string]int) {
	if universe == "" {
		return df.shapeCutflow, df.pathToIdx
	}
	cf, ok := df.variantShapeCutflow[universe]
	if !ok {
		cf = selection.NewCutflow()
		df.variantShapeCutflow[universe] = cf
		df.variantPathToIdx[universe] = make(map[string]int)
	}
	return cf, df.variantPathToIdx[universe]
}

func (df *Dataflow) addNode(build nodeBuilder) int {
	idx := len(df.nodeBuilders)
	df.nodeBuilders = append(df.nodeBuilders, build)
	return idx
}

// Run executes the single pass if it has not already run since the last
// new query was booked (spec.md §4.7 "Reading a result... triggers the
// single run if not already done", §5 "analyzed flag"). A second call
// before any new booking is a no-op.
func (df *Dataflow) Run(ctx context.Context) error {
	df.mu.Lock()
	defer df.mu.Unlock()
	if df.analyzed {
		return nil
	}
	return df.run(ctx)
}

func (df *Dataflow) run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	partition, err := df.ds.Allocate(ctx)
	if err != nil {
		return fmt.Errorf("dataflow: allocate: %w", err)
	}
	if !partition.Fixed {
		partition = rangeset.New(partition.Entries(), df.width, 0)
	}
	logger.Debug("dataflow: partitioned", "ranges", len(partition.Ranges), "width", df.width)

	if lc, ok := df.ds.(dataset.Lifecycle); ok {
		if err := lc.StartDataset(ctx); err != nil {
			return fmt.Errorf("dataflow: start dataset: %w", err)
		}
	}

	readers := make([]dataset.Reader, df.width)
	ranges := make([]rangeset.Range, 0, len(partition.Ranges))
	for _, rng := range partition.Ranges {
		reader, err := df.ds.Open(ctx, rng)
		if err != nil {
			return fmt.Errorf("dataflow: open slot %d: %w", rng.Slot, err)
		}
		readers[rng.Slot] = reader
		ranges = append(ranges, rng)
	}

	// slots is the Concurrent[T] replica vector spec.md §4.6 describes: one
	// slotRuntime per range, built in slot order before any node is
	// materialized.
	slots, err := concurrent.New(len(ranges), func(i int) (*slotRuntime, error) {
		rng := ranges[i]
		return &slotRuntime{
			slot:    rng.Slot,
			rng:     rng,
			reader:  readers[rng.Slot],
			cutflow: selection.NewCutflow(),
			results: make([]action.Action, len(df.nodeBuilders)),
		}, nil
	})
	if err != nil {
		return fmt.Errorf("dataflow: build slot runtimes: %w", err)
	}

	// Each node is materialized across every slot via Invoke before moving
	// to the next, so a builder for node n may rely on rt.results[0:n]
	// already being filled for every slot, not just its own.
	for n, build := range df.nodeBuilders {
		built, err := concurrent.Invoke(slots, func(rt *slotRuntime, _ int) (action.Action, error) {
			return build(rt)
		})
		if err != nil {
			return fmt.Errorf("materialize node %d: %w", n, err)
		}
		if err := concurrent.Apply(built, func(act action.Action, slot int) error {
			slots[slot].results[n] = act
			return nil
		}); err != nil {
			return fmt.Errorf("materialize node %d: %w", n, err)
		}
	}

	results := make([][]action.Action, df.width)
	runPlayer := func(ctx context.Context, i int) error {
		rt := slots[i]
		results[rt.slot] = rt.results
		player := &dataset.Player{Reader: rt.reader, Actions: rt.results}
		return player.Run(ctx, rt.rng)
	}

	if err := concurrent.RunSlots(ctx, df.mode, len(ranges), runPlayer); err != nil {
		return fmt.Errorf("dataflow: run: %w", err)
	}

	if lc, ok := df.ds.(dataset.Lifecycle); ok {
		if err := lc.FinishDataset(ctx); err != nil {
			return fmt.Errorf("dataflow: finish dataset: %w", err)
		}
	}

	df.slotResults = results
	df.activeWidth = len(ranges)
	df.mergedCache = make(map[int]any)
	df.analyzed = true
	return nil
}

// invalidate clears the analyzed flag, called whenever a new query is
// booked (spec.md §5 "unless a new query is booked, which resets the
// flag"). Cached merged results are left in place here; the next run
// replaces them.
func (df *Dataflow) invalidate() {
	df.analyzed = false
}
