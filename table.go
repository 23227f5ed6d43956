package strata

import (
	"cmp"
	"fmt"
	"slices"
)

// Table is an immutable set of named breakpoints. Each threshold is the
// inclusive upper bound of that breakpoint's width range; the narrowest
// breakpoint implicitly starts at zero.
//
// The ascending ordering and the name-to-rank mapping are derived once at
// construction and cached for the lifetime of the value.
type Table struct {
	thresholds map[string]int
	order      []string
	rank       map[string]int
}

// NewTable builds a Table from a name-to-threshold mapping.
//
// The mapping must have at least one entry, thresholds must be
// non-negative, and no two breakpoints may share a threshold. Shared
// thresholds would produce a zero-width range, so they are rejected
// outright instead of silently misbehaving.
func NewTable(thresholds map[string]int) (Table, error) {
	if len(thresholds) == 0 {
		return Table{}, ErrEmptyTable
	}

	byThreshold := make(map[int]string, len(thresholds))
	for name, t := range thresholds {
		if t < 0 {
			return Table{}, fmt.Errorf("breakpoint %q: %w", name, ErrNegativeThreshold)
		}
		if other, ok := byThreshold[t]; ok {
			// Stable error text regardless of map iteration order.
			a, b := name, other
			if b < a {
				a, b = b, a
			}
			return Table{}, fmt.Errorf("breakpoints %q and %q both at %d: %w", a, b, t, ErrDuplicateThreshold)
		}
		byThreshold[t] = name
	}

	order := make([]string, 0, len(thresholds))
	for name := range thresholds {
		order = append(order, name)
	}
	slices.SortFunc(order, func(a, b string) int {
		return cmp.Compare(thresholds[a], thresholds[b])
	})

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	copied := make(map[string]int, len(thresholds))
	for name, t := range thresholds {
		copied[name] = t
	}

	return Table{thresholds: copied, order: order, rank: rank}, nil
}

// MustTable is like NewTable but panics on error. Intended for static
// tables declared at program start.
func MustTable(thresholds map[string]int) Table {
	t, err := NewTable(thresholds)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of breakpoints.
func (t Table) Len() int {
	return len(t.order)
}

// Order returns the breakpoint names sorted ascending by threshold.
// The returned slice must not be modified.
func (t Table) Order() []string {
	return t.order
}

// Rank returns the zero-based position of name in the ascending ordering.
func (t Table) Rank(name string) (int, bool) {
	r, ok := t.rank[name]
	return r, ok
}

// Threshold returns the configured threshold for name.
func (t Table) Threshold(name string) (int, bool) {
	v, ok := t.thresholds[name]
	return v, ok
}

// Widest returns the name of the largest-threshold breakpoint.
// Returns "" for the zero Table.
func (t Table) Widest() string {
	if len(t.order) == 0 {
		return ""
	}
	return t.order[len(t.order)-1]
}
