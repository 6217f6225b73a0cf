package concurrent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Mode selects how RunSlots fans work out across slots (spec.md §4.6
// "scheduling is a policy, not a correctness concern"). Grounded on the
// teacher's worker-pool/cancel-on-error pattern in internal/executor/worker.go,
// reworked around one goroutine per dataset slot rather than a shared
// ready-queue of graph nodes, since a dataflow's slots are lockstep
// replicas, not independently-ordered DAG nodes.
type Mode int

const (
	// Sequential runs every slot's work on the caller's goroutine, in slot
	// order. Useful for deterministic debugging and single-slot datasets.
	Sequential Mode = iota
	// Threaded runs every slot's work on its own goroutine concurrently.
	Threaded
)

// RunSlots runs fn once per slot in [0, width), according to mode, and
// returns the first error. Sequential stops at the first failing slot and
// never runs the later ones. Threaded cancels ctx for the other slots on
// the first error and, like errgroup.Group.Wait, returns only after every
// slot's fn has returned.
func RunSlots(ctx context.Context, mode Mode, width int, fn func(ctx context.Context, slot int) error) error {
	if mode == Sequential {
		for slot := 0; slot < width; slot++ {
			if err := fn(ctx, slot); err != nil {
				return fmt.Errorf("concurrent: slot %d: %w", slot, err)
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for slot := 0; slot < width; slot++ {
		slot := slot
		g.Go(func() error {
			if err := fn(gctx, slot); err != nil {
				return fmt.Errorf("concurrent: slot %d: %w", slot, err)
			}
			return nil
		})
	}
	return g.Wait()
}
