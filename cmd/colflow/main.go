package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/colflow/colflow/internal/cli"
)

// main is the entrypoint for the colflow binary.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. memdataset.New panics on malformed input (mismatched column
// lengths, non-slice values), so a top-level recover turns that into a
// clean error message instead of a crash.
func run(outW io.Writer, args []string) (err error) {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("colflow: startup panicked: %v", r)
		}
	}()

	return cli.Run(context.Background(), cfg, outW)
}
