package query

import (
	"fmt"

	"github.com/colflow/colflow/internal/column"
	"github.com/colflow/colflow/internal/selection"
)

// Booker is a deferred query factory parameterized by selection (spec.md
// §3 "Booker[Q]", §9 "Booker as a deferred constructor"): it carries the
// query constructor, zero or more fill-argument tuples, and the set of
// selections it has already been booked at.
type Booker[R any, Q Query[R]] struct {
	newQuery func() Q
	fillArgs [][]column.Observable
	raw      bool
	scale    float64
	book     map[string]*Instance[R]
}

// NewBooker creates a booker for a query constructed by newQuery.
func NewBooker[R any, Q Query[R]](newQuery func() Q) *Booker[R, Q] {
	return &Booker[R, Q]{
		newQuery: newQuery,
		scale:    1.0,
		book:     make(map[string]*Instance[R]),
	}
}

// Fill appends a fill-argument tuple; a booker may be filled more than
// once to concatenate fills (spec.md §4.5 "Booking").
func (b *Booker[R, Q]) Fill(cols ...column.Observable) *Booker[R, Q] {
	b.fillArgs = append(b.fillArgs, cols)
	return b
}

// Raw disables weighting for every query this booker produces: the bound
// selection's weight is replaced by 1.0, so the effective weight passed to
// Count/FillValues is only the booker's scale times the normalization
// scalar (spec.md §3 "Query", §4.5).
func (b *Booker[R, Q]) Raw() *Booker[R, Q] {
	b.raw = true
	return b
}

// Scale multiplies this booker's queries' weight by s (spec.md §3 "Query",
// "an optional scale factor").
func (b *Booker[R, Q]) Scale(s float64) *Booker[R, Q] {
	b.scale *= s
	return b
}

// Book instantiates a query at selection sel, wiring sel as its bound
// selection, applying every recorded fill tuple, and multiplying in the
// dataset's normalization scalar (spec.md §4.5, §6 "normalize()"). Booking
// twice at the same full path is a construction error.
func (b *Booker[R, Q]) Book(sel *selection.Selection, normalize float64) (*Instance[R], error) {
	path := sel.FullPath()
	if _, exists := b.book[path]; exists {
		return nil, fmt.Errorf("query: already booked at selection %q", path)
	}

	inst := &Instance[R]{
		q:         b.newQuery(),
		sel:       sel,
		fillArgs:  b.fillArgs,
		raw:       b.raw,
		scale:     b.scale,
		normalize: normalize,
	}
	b.book[path] = inst
	return inst, nil
}

// BookAll books one query per selection, each sharing this booker's
// constructor, fill columns and scale (spec.md §4.5 "Multiple selections
// from one booker").
func (b *Booker[R, Q]) BookAll(normalize float64, selections ...*selection.Selection) ([]*Instance[R], error) {
	out := make([]*Instance[R], 0, len(selections))
	for _, sel := range selections {
		inst, err := b.Book(sel, normalize)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// Bookkeeper returns a read-only snapshot of every query this booker has
// instantiated so far, indexed by selection full path.
func (b *Booker[R, Q]) Bookkeeper() Bookkeeper[R] {
	entries := make(map[string]*Instance[R], len(b.book))
	for k, v := range b.book {
		entries[k] = v
	}
	return Bookkeeper[R]{entries: entries}
}
