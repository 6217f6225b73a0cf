package column

import (
	"github.com/colflow/colflow/internal/action"
	"github.com/colflow/colflow/internal/rangeset"
)

// Convert adapts a Column[From] into a Column[To] via an explicit
// conversion function. spec.md §4.3 describes three construction-time
// conversion-compatibility cases for the original's C++ interface: exact
// type, base-of-derived upcast, or implicit numeric conversion; else
// construction fails. Go has no implicit numeric conversion between
// distinct named types, so the third case is made explicit here rather
// than attempted automatically — callers bind the conversion themselves
// (e.g. Convert[int, float64](col, func(v int) float64 { return float64(v) })).
func Convert[From, To any](src Column[From], conv func(From) To) Column[To] {
	return &convertedColumn[From, To]{src: src, conv: conv}
}

type convertedColumn[From, To any] struct {
	action.Base
	src  Column[From]
	conv func(From) To
}

func (c *convertedColumn[From, To]) Execute(rangeset.Range, int64) error { return nil }
func (c *convertedColumn[From, To]) Value() To                           { return c.conv(c.src.Value()) }
