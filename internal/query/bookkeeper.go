package query

// Bookkeeper indexes the queries a Booker has instantiated by selection
// full path (spec.md §3 "Booker[Q]", §4.5 "bookkeeper").
type Bookkeeper[R any] struct {
	entries map[string]*Instance[R]
}

// Get returns the query booked at the given full path, if any.
func (bk Bookkeeper[R]) Get(fullPath string) (*Instance[R], bool) {
	inst, ok := bk.entries[fullPath]
	return inst, ok
}

// Paths returns every full path this bookkeeper has an entry for.
func (bk Bookkeeper[R]) Paths() []string {
	out := make([]string, 0, len(bk.entries))
	for path := range bk.entries {
		out = append(out, path)
	}
	return out
}
