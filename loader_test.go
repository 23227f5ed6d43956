package strata

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

// loaderFixture wires a sync-mode loader to a monitor running at width 90
// over the narrow/medium/wide table.
func loaderFixture(t *testing.T) (*Loader, chan []byte, *Monitor) {
	t.Helper()
	n, _ := startedNotifier(t, 90)

	m := NewMonitor(terminalTable(t), n)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := m.Start(ctx); err != nil {
		t.Fatalf("monitor Start() error = %v", err)
	}

	ch := make(chan []byte, 10)
	l := NewLoader(NewSyncChannelWatcher(ch), m).SyncMode()
	return l, ch, m
}

func TestLoader_AppliesInitialConfig(t *testing.T) {
	l, ch, m := loaderFixture(t)
	ch <- []byte("breakpoints:\n  small: 50\n  large: 150\n")

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if l.State() != StateHealthy {
		t.Errorf("expected healthy, got %s", l.State())
	}

	table, ok := l.CurrentTable()
	if !ok {
		t.Fatal("expected current table")
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 breakpoints, got %d", table.Len())
	}

	// Width 90 against small=[0,50], large=[51,∞).
	if got := m.Current(); got != "large" {
		t.Errorf("expected large, got %s", got)
	}
}

func TestLoader_InitialFailureIsEmpty(t *testing.T) {
	l, ch, m := loaderFixture(t)
	ch <- []byte("breakpoints: {}\n")

	if err := l.Start(context.Background()); err == nil {
		t.Fatal("expected error for empty breakpoint map")
	}
	if l.State() != StateEmpty {
		t.Errorf("expected empty, got %s", l.State())
	}
	if _, ok := l.CurrentTable(); ok {
		t.Error("expected no current table")
	}

	// The monitor keeps its original table.
	if got := m.Current(); got != "medium" {
		t.Errorf("expected medium, got %s", got)
	}
}

func TestLoader_RollsBackOnInvalidUpdate(t *testing.T) {
	l, ch, m := loaderFixture(t)
	ch <- []byte("breakpoints:\n  small: 50\n  large: 150\n")

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Duplicate thresholds are rejected at table construction.
	ch <- []byte("breakpoints:\n  a: 100\n  b: 100\n")
	if !l.Process(ctx) {
		t.Fatal("expected Process to consume a value")
	}

	if l.State() != StateDegraded {
		t.Errorf("expected degraded, got %s", l.State())
	}
	if l.LastError() == nil {
		t.Error("expected LastError to be set")
	}

	// Previous table still drives the monitor.
	if got := m.Current(); got != "large" {
		t.Errorf("expected large, got %s", got)
	}
}

func TestLoader_RecoversAfterFailure(t *testing.T) {
	l, ch, _ := loaderFixture(t)
	ch <- []byte("breakpoints:\n  small: 50\n  large: 150\n")

	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ch <- []byte("not yaml: [")
	l.Process(ctx)
	if l.State() != StateDegraded {
		t.Fatalf("expected degraded, got %s", l.State())
	}

	ch <- []byte("breakpoints:\n  tiny: 30\n  huge: 300\n")
	l.Process(ctx)
	if l.State() != StateHealthy {
		t.Errorf("expected healthy after recovery, got %s", l.State())
	}
	if l.LastError() != nil {
		t.Errorf("expected LastError cleared, got %v", l.LastError())
	}
}

func TestLoader_JSONCodec(t *testing.T) {
	l, ch, m := loaderFixture(t)
	l.Codec(JSONCodec{})
	ch <- []byte(`{"breakpoints": {"compact": 60, "full": 120}}`)

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := m.Current(); got != "full" {
		t.Errorf("expected full, got %s", got)
	}
}

func TestLoader_NegativeThresholdRejected(t *testing.T) {
	l, ch, _ := loaderFixture(t)
	ch <- []byte("breakpoints:\n  bad: -5\n")

	if err := l.Start(context.Background()); err == nil {
		t.Fatal("expected validation error for negative threshold")
	}
	if l.State() != StateEmpty {
		t.Errorf("expected empty, got %s", l.State())
	}
}

func TestLoader_ErrorHistory(t *testing.T) {
	clock := clockz.NewFakeClock()
	l, ch, _ := loaderFixture(t)
	l.Clock(clock).ErrorHistorySize(3)

	ctx := context.Background()
	ch <- []byte("breakpoints:\n  ok: 100\n")
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ch <- []byte("nope: [")
	l.Process(ctx)
	clock.Advance(time.Second)
	ch <- []byte("breakpoints: {}\n")
	l.Process(ctx)

	history := l.ErrorHistory()
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if !history[0].At.Before(history[1].At) {
		t.Error("expected records ordered oldest first")
	}

	// A successful load clears the history.
	ch <- []byte("breakpoints:\n  ok: 100\n")
	l.Process(ctx)
	if got := l.ErrorHistory(); got != nil {
		t.Errorf("expected cleared history, got %v", got)
	}
}

func TestLoader_StartTwice(t *testing.T) {
	l, ch, _ := loaderFixture(t)
	ch <- []byte("breakpoints:\n  ok: 100\n")

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := l.Start(context.Background()); err == nil {
		t.Fatal("expected error on second Start")
	}
}

func TestLoader_StartupTimeout(t *testing.T) {
	n, _ := startedNotifier(t, 90)
	m := NewMonitor(terminalTable(t), n)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := m.Start(ctx); err != nil {
		t.Fatalf("monitor Start() error = %v", err)
	}

	// Source never emits.
	l := NewLoader(NewSyncChannelWatcher(make(chan []byte)), m).
		SyncMode().
		StartupTimeout(20 * time.Millisecond)

	if err := l.Start(context.Background()); err == nil {
		t.Fatal("expected startup timeout error")
	}
}

func TestLoader_ProcessOutsideSyncMode(t *testing.T) {
	n, _ := startedNotifier(t, 90)
	m := NewMonitor(terminalTable(t), n)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := m.Start(ctx); err != nil {
		t.Fatalf("monitor Start() error = %v", err)
	}

	ch := make(chan []byte, 1)
	ch <- []byte("breakpoints:\n  ok: 100\n")
	l := NewLoader(NewChannelWatcher(ch), m)
	if err := l.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if l.Process(ctx) {
		t.Error("expected Process to return false outside sync mode")
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		StateLoading:  "loading",
		StateHealthy:  "healthy",
		StateDegraded: "degraded",
		StateEmpty:    "empty",
		State(42):     "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String(): expected %s, got %s", state, want, got)
		}
	}
}
