// Package concurrent implements the lockstep concurrent-node layer
// (spec.md §4.6): an ordered vector of N replicas of an action, one per
// slot, built and operated in unison. The layer is purely structural — it
// does not itself spawn threads; scheduling the actual per-slot work is
// internal/concurrent's other half, RunSlots (schedule.go), which the dataflow
// frontend calls once per pass.
package concurrent

import "fmt"

// Concurrent is an ordered vector of N replicas of an action type, one per
// slot (spec.md §3 "Concurrent[T]"). All concurrents built over the same
// dataflow share the same width N.
type Concurrent[T any] []T

// New builds a Concurrent[T] of the given width by invoking make once per
// slot index in order.
func New[T any](width int, make func(slot int) (T, error)) (Concurrent[T], error) {
	out := make2[T](width)
	for slot := 0; slot < width; slot++ {
		v, err := make(slot)
		if err != nil {
			return nil, fmt.Errorf("concurrent: building slot %d: %w", slot, err)
		}
		out[slot] = v
	}
	return out, nil
}

// make2 avoids shadowing the make builtin inside New's parameter name.
func make2[T any](width int) Concurrent[T] { return make(Concurrent[T], width) }

// Width returns the number of slot replicas.
func (c Concurrent[T]) Width() int { return len(c) }

// Model returns the slot-0 replica, used for merging and result shape
// (spec.md §4.6 "model()").
func (c Concurrent[T]) Model() T { return c[0] }

// Invoke calls fn once per slot against that slot's replica, returning
// another Concurrent whose slot i is fn's return value (spec.md §4.6
// "invoke(fn, args...)").
func Invoke[T, R any](c Concurrent[T], fn func(repl T, slot int) (R, error)) (Concurrent[R], error) {
	out := make2[R](len(c))
	for slot, repl := range c {
		r, err := fn(repl, slot)
		if err != nil {
			return nil, fmt.Errorf("concurrent: invoke on slot %d: %w", slot, err)
		}
		out[slot] = r
	}
	return out, nil
}

// Apply calls fn once per slot for side effects, discarding return values
// (spec.md §4.6 "apply(fn, args...)").
func Apply[T any](c Concurrent[T], fn func(repl T, slot int) error) error {
	for slot, repl := range c {
		if err := fn(repl, slot); err != nil {
			return fmt.Errorf("concurrent: apply on slot %d: %w", slot, err)
		}
	}
	return nil
}
