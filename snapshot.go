package strata

import "sync/atomic"

// Snapshot is a read-only view of the monitor's state: the breakpoint
// table, its ordering, and the current breakpoint. A new Snapshot value is
// produced whenever the table or the current breakpoint changes; an
// individual Snapshot never mutates, so consumers can hold one across a
// render pass without torn reads.
type Snapshot struct {
	table   Table
	current string
}

// Table returns the breakpoint table the snapshot was taken from.
func (s Snapshot) Table() Table {
	return s.table
}

// Order returns the breakpoint names sorted ascending by threshold.
func (s Snapshot) Order() []string {
	return s.table.Order()
}

// Rank returns the zero-based position of name in the ordering.
func (s Snapshot) Rank(name string) (int, bool) {
	return s.table.Rank(name)
}

// Current returns the current breakpoint name.
func (s Snapshot) Current() string {
	return s.current
}

// valid reports whether the snapshot carries a usable table and current
// breakpoint. The zero Snapshot is invalid.
func (s Snapshot) valid() bool {
	if s.current == "" || s.table.Len() == 0 {
		return false
	}
	_, ok := s.table.Rank(s.current)
	return ok
}

// atomicSnapshot holds the latest snapshot for lock-free reads.
// The zero value loads as the zero Snapshot.
type atomicSnapshot struct {
	p atomic.Pointer[Snapshot]
}

func (a *atomicSnapshot) store(s Snapshot) {
	a.p.Store(&s)
}

func (a *atomicSnapshot) load() Snapshot {
	if p := a.p.Load(); p != nil {
		return *p
	}
	return Snapshot{}
}
