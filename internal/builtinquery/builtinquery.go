// Package builtinquery provides the handful of Query implementations the
// engine ships with out of the box: a row counter, a weighted sum, and a
// value collector. Each is a worked example of the query contract (spec.md
// §6 "Query contract") and the fixture most engine tests book against.
package builtinquery

import "fmt"

// Count tallies rows that reach its selection with nonzero effective
// weight (spec.md §8 scenario 1 "count rows with w=1"). It is not
// fillable: no column observables are bound on fill.
type Count struct {
	n int64
}

// NewCount returns a fresh Count.
func NewCount() *Count { return &Count{} }

func (c *Count) Count(w float64) {
	if w != 0 {
		c.n++
	}
}

func (c *Count) GetResult() int64 { return c.n }

func (c *Count) Merge(results []int64) int64 {
	var total int64
	for _, r := range results {
		total += r
	}
	return total
}

// Sum accumulates w*value over every fill, where value is its single
// fill-bound column converted to float64 (spec.md §8 scenario 2 "sum of
// 1*weight").
type Sum struct {
	total float64
}

// NewSum returns a fresh Sum.
func NewSum() *Sum { return &Sum{} }

func (s *Sum) Count(w float64) { s.total += w }

func (s *Sum) FillValues(values []any, w float64) {
	v, err := toFloat64(values)
	if err != nil {
		panic(err)
	}
	s.total += v * w
}

func (s *Sum) GetResult() float64 { return s.total }

func (s *Sum) Merge(results []float64) float64 {
	var total float64
	for _, r := range results {
		total += r
	}
	return total
}

// Collect concatenates its single fill-bound column's value across every
// passing row (spec.md §8 scenario 6 "fillable query that concatenates
// values of x per row").
type Collect struct {
	values []any
}

// NewCollect returns a fresh Collect.
func NewCollect() *Collect { return &Collect{} }

func (c *Collect) Count(float64) {}

func (c *Collect) FillValues(values []any, w float64) {
	if w == 0 {
		return
	}
	if len(values) != 1 {
		panic(fmt.Sprintf("builtinquery: collect takes exactly one fill column, got %d", len(values)))
	}
	c.values = append(c.values, values[0])
}

func (c *Collect) GetResult() []any { return c.values }

func (c *Collect) Merge(results [][]any) []any {
	var out []any
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func toFloat64(values []any) (float64, error) {
	if len(values) != 1 {
		return 0, fmt.Errorf("builtinquery: sum takes exactly one fill column, got %d", len(values))
	}
	switch v := values[0].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("builtinquery: sum column value is not numeric: %T", v)
	}
}
