package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError carries the process exit code a parse or run failure should
// produce, mirroring the teacher's cli.ExitError.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Config holds everything Run needs: the plan to load, the dataset to
// run it against, and how to log.
type Config struct {
	PlanPath    string
	DataPath    string
	LogFormat   string
	LogLevel    string
	Concurrency int
}

// Parse processes command-line arguments into a Config. The second return
// value reports whether the program should exit cleanly without running
// anything (e.g. -h was given, or no plan path was supplied and usage was
// printed instead).
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("cli: parsing arguments")
	flagSet := flag.NewFlagSet("colflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
colflow - a declarative, multithreaded columnar dataflow engine.

Usage:
  colflow [options] [PLAN_PATH]

Arguments:
  PLAN_PATH
    Path to a single .hcl file or a directory of .hcl files describing
    the analysis plan.

Options:
`)
		flagSet.PrintDefaults()
	}

	planFlag := flagSet.String("plan", "", "Path to the plan file or directory.")
	pFlag := flagSet.String("p", "", "Path to the plan file or directory (shorthand).")
	dataFlag := flagSet.String("data", "", "Path to a JSON file supplying the dataset's columns.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	concurrencyFlag := flagSet.Int("concurrency", 1, "Number of concurrent slots to partition the dataset across.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *planFlag
	if path == "" {
		path = *pFlag
	}
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	if *dataFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "missing required -data path"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *concurrencyFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "concurrency must be at least 1"}
	}

	return &Config{
		PlanPath:    path,
		DataPath:    *dataFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Concurrency: *concurrencyFlag,
	}, false, nil
}

func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	} else {
		handler = slog.NewTextHandler(outW, opts)
	}
	return slog.New(handler)
}
