package registry

import (
	"fmt"
	"log/slog"
)

// RegisterColumn registers a column kind under name.
func (r *Registry) RegisterColumn(name string, b ColumnBuilder) {
	if _, exists := r.Columns[name]; exists {
		panic(fmt.Sprintf("column kind %q already registered", name))
	}
	slog.Debug("registry: registering column kind", "name", name)
	r.Columns[name] = b
}

// RegisterSelection registers a selection kind under name.
func (r *Registry) RegisterSelection(name string, b SelectionBuilder) {
	if _, exists := r.Selections[name]; exists {
		panic(fmt.Sprintf("selection kind %q already registered", name))
	}
	slog.Debug("registry: registering selection kind", "name", name)
	r.Selections[name] = b
}

// RegisterQuery registers a query kind under name.
func (r *Registry) RegisterQuery(name string, b QueryBuilder) {
	if _, exists := r.Queries[name]; exists {
		panic(fmt.Sprintf("query kind %q already registered", name))
	}
	slog.Debug("registry: registering query kind", "name", name)
	r.Queries[name] = b
}
