package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/colflow/colflow/internal/column"
)

// ErrNotFound is returned by Get when no selection exists at the requested
// full path (spec.md §7.1).
var ErrNotFound = errors.New("selection: full path not found")

// Cutflow is the tree of selections rooted at an implicit "none" parent
// (spec.md §3 "Selection path", §4.4). It owns path-uniqueness enforcement
// and full-path lookup.
type Cutflow struct {
	byFullPath map[string]*Selection
	siblings   map[*Selection]map[string]bool
}

// NewCutflow returns an empty cutflow tree.
func NewCutflow() *Cutflow {
	return &Cutflow{
		byFullPath: make(map[string]*Selection),
		siblings:   make(map[*Selection]map[string]bool),
	}
}

// Filter creates a child Cut selection: passed_cut = parent.passed_cut &&
// decision != 0; get_weight = parent.get_weight. parent may be nil to start
// a new initial branch.
func (c *Cutflow) Filter(parent *Selection, name string, decision column.Column[float64]) (*Selection, error) {
	return c.add(parent, name, false, cutCompute(parent, decision))
}

// Weight creates a child Weight selection: passed_cut = parent.passed_cut;
// get_weight = parent.get_weight * decision.
func (c *Cutflow) Weight(parent *Selection, name string, decision column.Column[float64]) (*Selection, error) {
	return c.add(parent, name, false, weightCompute(parent, decision))
}

// Channel creates a child selection identical to Filter but marked as a
// channel, so that its name (and its descendants' channel ancestors)
// contributes to Path (spec.md §4.4).
func (c *Cutflow) Channel(parent *Selection, name string, decision column.Column[float64]) (*Selection, error) {
	return c.add(parent, name, true, cutCompute(parent, decision))
}

// Join produces a new selection with passed_cut = a.PassedCut() &&
// b.PassedCut() and get_weight = a.GetWeight() * b.GetWeight() (spec.md
// §4.4 "Joining"). The result is anonymous: it is not inserted into the
// cutflow tree and is not reachable via Get, since it represents a
// logical conjunction of two independently built branches rather than a
// new point in the named tree.
func Join(a, b *Selection) *Selection {
	return &Selection{
		name: fmt.Sprintf("join(%s,%s)", a.FullPath(), b.FullPath()),
		compute: func() (bool, float64) {
			return a.PassedCut() && b.PassedCut(), a.GetWeight() * b.GetWeight()
		},
	}
}

// Get looks up a selection by its full path, failing with ErrNotFound if
// absent (spec.md §4.4).
func (c *Cutflow) Get(fullPath string) (*Selection, error) {
	s, ok := c.byFullPath[fullPath]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, fullPath)
	}
	return s, nil
}

func (c *Cutflow) add(parent *Selection, name string, isChannel bool, compute func() (bool, float64)) (*Selection, error) {
	if name == "" {
		return nil, fmt.Errorf("selection: name must not be empty")
	}
	if c.siblings[parent][name] {
		return nil, fmt.Errorf("selection: duplicate name %q under parent %s", name, parentLabel(parent))
	}

	sel := &Selection{name: name, parent: parent, isChannel: isChannel, compute: compute}
	sel.path = buildPath(sel)
	sel.fullPath = buildFullPath(sel)

	if _, exists := c.byFullPath[sel.fullPath]; exists {
		return nil, fmt.Errorf("selection: duplicate full path %q", sel.fullPath)
	}

	if c.siblings[parent] == nil {
		c.siblings[parent] = make(map[string]bool)
	}
	c.siblings[parent][name] = true
	c.byFullPath[sel.fullPath] = sel
	return sel, nil
}

func parentLabel(parent *Selection) string {
	if parent == nil {
		return "<root>"
	}
	return parent.FullPath()
}

// ancestorChain returns s's ancestors ordered root-first, not including s.
func ancestorChain(s *Selection) []*Selection {
	var rev []*Selection
	for p := s.parent; p != nil; p = p.parent {
		rev = append(rev, p)
	}
	chain := make([]*Selection, len(rev))
	for i, a := range rev {
		chain[len(rev)-1-i] = a
	}
	return chain
}

func buildFullPath(s *Selection) string {
	parts := make([]string, 0, 4)
	for _, a := range ancestorChain(s) {
		parts = append(parts, a.name)
	}
	parts = append(parts, s.name)
	return strings.Join(parts, "/")
}

func buildPath(s *Selection) string {
	parts := make([]string, 0, 4)
	for _, a := range ancestorChain(s) {
		if a.isChannel {
			parts = append(parts, a.name)
		}
	}
	parts = append(parts, s.name)
	return strings.Join(parts, "/")
}

func cutCompute(parent *Selection, decision column.Column[float64]) func() (bool, float64) {
	return func() (bool, float64) {
		pass, weight := true, 1.0
		if parent != nil {
			pass, weight = parent.PassedCut(), parent.GetWeight()
		}
		return pass && decision.Value() != 0, weight
	}
}

func weightCompute(parent *Selection, decision column.Column[float64]) func() (bool, float64) {
	return func() (bool, float64) {
		pass, weight := true, 1.0
		if parent != nil {
			pass, weight = parent.PassedCut(), parent.GetWeight()
		}
		return pass, weight * decision.Value()
	}
}
