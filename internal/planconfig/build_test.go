package planconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colflow/colflow/internal/dataflow"
	"github.com/colflow/colflow/internal/memdataset"
	"github.com/colflow/colflow/internal/planconfig"
	"github.com/colflow/colflow/internal/registry"
)

func buildFromHCL(t *testing.T, ds *memdataset.Dataset, contents string) *planconfig.Built {
	t.Helper()
	path := writePlan(t, contents)
	plan, err := planconfig.Load(testContext(), path)
	require.NoError(t, err)

	df := dataflow.New(ds, dataflow.WithConcurrency(1))
	built, err := planconfig.Build(df, registry.Builtins(), plan)
	require.NoError(t, err)
	return built
}

func TestBuild_EndToEndAnalysis(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": []float64{1, 2, 3, 4, 5}})

	built := buildFromHCL(t, ds, `
column "x" {
  kind = "read"
  arguments { name = "x" }
}

column "doubled" {
  kind       = "scale"
  depends_on = ["x"]
  arguments {
    source = "x"
    factor = 2
  }
}

selection "root" {
  kind       = "filter_gt"
  depends_on = ["x"]
  arguments {
    column    = "x"
    threshold = 2
  }
}

query "total" {
  kind      = "sum"
  selection = "root"
  fill      = "doubled"
}

query "passed" {
  kind      = "count"
  selection = "root"
}
`)

	total, err := built.Queries["total"].Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, float64(24), total) // (3+4+5)*2

	passed, err := built.Queries["passed"].Result(testContext())
	require.NoError(t, err)
	assert.Equal(t, int64(3), passed)

	assert.Equal(t, []string{"total", "passed"}, built.QueryOrder)
}

func TestBuild_UnknownColumnKindFails(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": []float64{1}})
	path := writePlan(t, `
column "x" {
  kind = "not_a_real_kind"
  arguments {}
}
`)
	plan, err := planconfig.Load(testContext(), path)
	require.NoError(t, err)

	df := dataflow.New(ds, dataflow.WithConcurrency(1))
	_, err = planconfig.Build(df, registry.Builtins(), plan)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestBuild_MissingDependencyFails(t *testing.T) {
	ds := memdataset.New(map[string]any{"x": []float64{1}})
	path := writePlan(t, `
column "y" {
  kind       = "scale"
  depends_on = ["x"]
  arguments {
    source = "x"
    factor = 2
  }
}
`)
	plan, err := planconfig.Load(testContext(), path)
	require.NoError(t, err)

	df := dataflow.New(ds, dataflow.WithConcurrency(1))
	_, err = planconfig.Build(df, registry.Builtins(), plan)
	assert.ErrorContains(t, err, "not yet declared")
}
