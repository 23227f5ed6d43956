package testing

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/strata"
)

func TestFixture_TracksWidths(t *testing.T) {
	table := strata.MustTable(map[string]int{
		"narrow": 80, "medium": 100, "wide": 140,
	})

	f := NewFixture(t, table, 90)
	RequireBreakpoint(t, f.Monitor, "medium")

	ctx := context.Background()
	f.SetWidth(ctx, 200)
	RequireBreakpoint(t, f.Monitor, "wide")

	f.SetWidth(ctx, 10)
	RequireBreakpoint(t, f.Monitor, "narrow")
}

func TestRequireResolve(t *testing.T) {
	table := strata.MustTable(map[string]int{
		"narrow": 80, "wide": 140,
	})

	f := NewFixture(t, table, 200)
	columns := strata.Responsive(1, map[string]int{"wide": 3})
	RequireResolve(t, columns, f.Monitor.Snapshot(), 3)

	f.SetWidth(context.Background(), 40)
	RequireResolve(t, columns, f.Monitor.Snapshot(), 1)
}

func TestWaitFor(t *testing.T) {
	n := 0
	ok := WaitFor(t, 500*time.Millisecond, func() bool {
		n++
		return n >= 3
	})
	if !ok {
		t.Fatal("expected condition to be met")
	}
}
