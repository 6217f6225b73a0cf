package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	args := []string{"-h"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	err := run(out, args)

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined")
}

func TestRun_MissingDataFlag(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	planPath := filepath.Join(tempDir, "plan.hcl")
	require.NoError(t, os.WriteFile(planPath, []byte(`
column "x" {
  kind = "read"
  arguments { name = "x" }
}
`), 0600))

	out := &bytes.Buffer{}
	err := run(out, []string{planPath})

	require.Error(t, err)
	require.Contains(t, err.Error(), "missing required -data path")
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	planPath := filepath.Join(tempDir, "plan.hcl")
	require.NoError(t, os.WriteFile(planPath, []byte(`
column "x" {
  kind = "read"
  arguments { name = "x" }
}

selection "root" {
  kind       = "filter_gt"
  depends_on = ["x"]
  arguments {
    column    = "x"
    threshold = 1
  }
}

query "total" {
  kind      = "sum"
  selection = "root"
  fill      = "x"
}

query "passed" {
  kind      = "count"
  selection = "root"
}
`), 0600))

	dataPath := filepath.Join(tempDir, "data.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"x": [1, 2, 3, 4]}`), 0600))

	out := &bytes.Buffer{}
	err := run(out, []string{"-data", dataPath, planPath})

	require.NoError(t, err)
	require.Contains(t, out.String(), "total")
	require.Contains(t, out.String(), "passed")
}
