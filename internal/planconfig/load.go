package planconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/colflow/colflow/internal/ctxlog"
)

// Load parses every ".hcl" file found under paths (files given directly,
// directories walked recursively) and merges their column, selection and
// query blocks into one Plan, mirroring the teacher's hcl_adapter.Loader.
func Load(ctx context.Context, paths ...string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("planconfig: discovered files", "count", len(files))

	plan := &Plan{}
	parser := hclparse.NewParser()
	for _, path := range files {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("planconfig: parse %s: %w", path, diags)
		}

		var root file
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("planconfig: decode %s: %w", path, diags)
		}

		plan.Columns = append(plan.Columns, root.Columns...)
		plan.Selections = append(plan.Selections, root.Selections...)
		plan.Queries = append(plan.Queries, root.Queries...)
	}

	logger.Debug("planconfig: loaded plan",
		"columns", len(plan.Columns), "selections", len(plan.Selections), "queries", len(plan.Queries))
	return plan, nil
}

func findHCLFiles(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("planconfig: %w", err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("planconfig: %w", err)
		}
	}
	return out, nil
}

// decodeArgs decodes block's raw body into a fresh value from newArgs,
// returning that value (still a pointer) for the registry builder to
// receive. A nil block (no `arguments { }` given) decodes an empty body,
// which is valid as long as newArgs's fields are all optional or the
// registry builder tolerates their zero values.
func decodeArgs(block *argsBlock, newArgs func() any) (any, error) {
	args := newArgs()
	var body hcl.Body = hcl.EmptyBody()
	if block != nil {
		body = block.Body
	}
	if diags := gohcl.DecodeBody(body, nil, args); diags.HasErrors() {
		return nil, fmt.Errorf("planconfig: decode arguments: %w", diags)
	}
	return args, nil
}
