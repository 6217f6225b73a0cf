package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"

	"github.com/colflow/colflow/internal/ctxlog"
	"github.com/colflow/colflow/internal/dataflow"
	"github.com/colflow/colflow/internal/memdataset"
	"github.com/colflow/colflow/internal/planconfig"
	"github.com/colflow/colflow/internal/registry"
)

// Run loads cfg's plan and dataset, executes the resulting dataflow once,
// and prints every booked query's result to out, in the plan's
// declaration order.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, out)
	ctx = ctxlog.WithLogger(ctx, logger)

	ds, err := loadDataset(cfg.DataPath)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	plan, err := planconfig.Load(ctx, cfg.PlanPath)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	df := dataflow.New(ds, dataflow.WithConcurrency(cfg.Concurrency))
	built, err := planconfig.Build(df, registry.Builtins(), plan)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	return report(ctx, out, built)
}

// loadDataset reads a JSON object mapping column name to an array of
// numbers into a memdataset.Dataset. Every column is float64: the same
// restriction the builtin registry kinds place on declarative columns.
func loadDataset(path string) (*memdataset.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read dataset %s: %w", path, err)
	}

	var parsed map[string][]float64
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("cli: decode dataset %s: %w", path, err)
	}

	columns := make(map[string]any, len(parsed))
	for name, values := range parsed {
		columns[name] = values
	}
	return memdataset.New(columns), nil
}

func report(ctx context.Context, out io.Writer, built *planconfig.Built) error {
	fmt.Fprintln(out, color.Bold.Sprint("Results"))
	for _, name := range built.QueryOrder {
		result, err := built.Queries[name].Result(ctx)
		if err != nil {
			return fmt.Errorf("cli: query %q: %w", name, err)
		}
		fmt.Fprintf(out, "  %s: %v\n", color.Cyan.Sprint(name), result)
	}
	if len(built.QueryOrder) == 0 {
		fmt.Fprintln(out, "  "+color.Yellow.Sprint("(plan booked no queries)"))
	}
	return nil
}
