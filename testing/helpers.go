// Package testing provides test utilities and helpers for strata monitor
// and loader testing.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/strata"
)

// Fixture is a monitor wired to a deterministic sync-mode width source.
// Widths pushed through SetWidth are applied synchronously, so assertions
// can run immediately afterwards.
type Fixture struct {
	Monitor  *strata.Monitor
	Notifier *strata.WidthNotifier

	widths chan int
}

// NewFixture starts a notifier at the initial width and a monitor over
// the given table. Both are torn down with the test.
func NewFixture(t *testing.T, table strata.Table, width int) *Fixture {
	t.Helper()

	widths := make(chan int, 16)
	widths <- width
	notifier := strata.NewWidthNotifier(strata.NewSyncChannelViewport(widths)).SyncMode()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := notifier.Start(ctx); err != nil {
		t.Fatalf("notifier Start() error = %v", err)
	}

	monitor := strata.NewMonitor(table, notifier)
	if err := monitor.Start(ctx); err != nil {
		t.Fatalf("monitor Start() error = %v", err)
	}

	return &Fixture{Monitor: monitor, Notifier: notifier, widths: widths}
}

// SetWidth pushes a viewport width and processes it synchronously.
func (f *Fixture) SetWidth(ctx context.Context, width int) {
	f.widths <- width
	f.Notifier.Process(ctx)
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the loader reaches the expected state or timeout occurs.
func WaitForState(t *testing.T, l *strata.Loader, expected strata.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return l.State() == expected
	})
}

// RequireState fails the test immediately if the loader is not in the expected state.
func RequireState(t *testing.T, l *strata.Loader, expected strata.State) {
	t.Helper()
	if got := l.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireBreakpoint fails the test if the monitor's current breakpoint differs.
func RequireBreakpoint(t *testing.T, m *strata.Monitor, expected string) {
	t.Helper()
	if got := m.Current(); got != expected {
		t.Fatalf("expected breakpoint %s, got %s", expected, got)
	}
}

// RequireResolve fails the test if resolution errors or yields an unexpected value.
func RequireResolve[T comparable](t *testing.T, v strata.Value[T], snap strata.Snapshot, expected T) {
	t.Helper()
	got, err := v.Resolve(snap)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != expected {
		t.Fatalf("Resolve(): expected %v, got %v", expected, got)
	}
}
