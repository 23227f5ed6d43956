package strata

// Unbounded marks a Range with no upper limit.
const Unbounded = -1

// Range is a contiguous span of viewport widths attributed to one
// breakpoint. Both bounds are inclusive; Max == Unbounded means the range
// extends to infinity.
type Range struct {
	Name string
	Min  int
	Max  int
}

// Contains reports whether width falls inside the range.
func (r Range) Contains(width int) bool {
	if width < r.Min {
		return false
	}
	return r.Max == Unbounded || width <= r.Max
}

// Partition derives one Range per breakpoint from the table's ordering.
//
// For ordering [b0 .. b(n-1)] with thresholds t0 < .. < t(n-1):
//
//	b0:      width <= t0
//	bi:      t(i-1) < width <= ti
//	b(n-1):  width > t(n-2)
//
// The ranges are pairwise disjoint and jointly cover the whole
// non-negative width axis. A single-breakpoint table yields one range
// covering everything.
func Partition(t Table) []Range {
	order := t.Order()
	ranges := make([]Range, len(order))
	for i, name := range order {
		r := Range{Name: name, Min: 0, Max: Unbounded}
		if i > 0 {
			prev, _ := t.Threshold(order[i-1])
			r.Min = prev + 1
		}
		if i < len(order)-1 {
			r.Max, _ = t.Threshold(name)
		}
		ranges[i] = r
	}
	return ranges
}
