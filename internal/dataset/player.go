package dataset

import (
	"context"
	"fmt"

	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/ctxlog"
	"github.com/colflow/colflow/internal/rangeset"
)

// Player composes a Reader with a slot's full, dependency-ordered action
// list and implements the per-row driver loop (spec.md §4.2).
type Player struct {
	Reader  Reader
	Actions []action.Action
}

// Run drives the reader and every action through one pass over rng.
func (p *Player) Run(ctx context.Context, rng rangeset.Range) error {
	logger := ctxlog.FromContext(ctx).With("slot", rng.Slot, "begin", rng.Begin, "end", rng.End)
	logger.Debug("player: starting range")

	if err := p.Reader.Begin(ctx); err != nil {
		return fmt.Errorf("player: reader.Begin: %w", err)
	}

	for _, a := range p.Actions {
		if err := a.Initialize(rng); err != nil {
			return fmt.Errorf("player: initialize: %w", err)
		}
	}

	for entry := rng.Begin; entry < rng.End; entry++ {
		ok, err := p.Reader.Next(ctx)
		if err != nil {
			return fmt.Errorf("player: reader.Next at entry %d: %w", entry, err)
		}
		if !ok {
			return fmt.Errorf("player: reader exhausted at entry %d, expected up to %d", entry, rng.End)
		}
		for _, a := range p.Actions {
			if err := a.Execute(rng, entry); err != nil {
				return fmt.Errorf("player: execute at entry %d: %w", entry, err)
			}
		}
	}

	for _, a := range p.Actions {
		if err := a.Finalize(rng); err != nil {
			return fmt.Errorf("player: finalize: %w", err)
		}
	}

	if err := p.Reader.End(ctx); err != nil {
		return fmt.Errorf("player: reader.End: %w", err)
	}

	logger.Debug("player: finished range")
	return nil
}
