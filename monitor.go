package strata

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
)

// Monitor owns the live notion of "current breakpoint". It registers one
// range subscription per breakpoint with a Notifier, updates the current
// breakpoint whenever a range reports that the viewport entered it, and
// exposes the result as immutable Snapshots.
//
// The current breakpoint starts as the widest name in the table and is
// corrected from the subscriptions' initial match states during Start.
// Because the ranges partition the width axis, exactly one subscription
// matches at any time; a redundant report for the already-current
// breakpoint is a no-op.
type Monitor struct {
	notifier Notifier
	metrics  MetricsProvider
	onStop   func()

	snap atomicSnapshot

	mu      sync.Mutex
	table   Table
	subs    []Subscription
	epoch   uint64
	started bool
	stopped bool

	obsMu     sync.Mutex
	observers []observer
	nextObsID int
}

type observer struct {
	id int
	fn func(Snapshot)
}

// NewMonitor creates a Monitor for the given table and notification
// facility. Configure with chainable methods before calling Start().
func NewMonitor(table Table, notifier Notifier) *Monitor {
	return &Monitor{
		notifier: notifier,
		table:    table,
	}
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (m *Monitor) Metrics(provider MetricsProvider) *Monitor {
	m.metrics = provider
	return m
}

// OnStop sets a callback invoked after the monitor has torn down all
// subscriptions. Must be called before Start().
func (m *Monitor) OnStop(fn func()) *Monitor {
	m.onStop = fn
	return m
}

// Start registers one subscription per breakpoint range and establishes
// the initial current breakpoint. If any registration fails, every
// subscription acquired so far is canceled before Start returns: either
// the full set is live or none of it is.
//
// The monitor tears down when ctx is canceled or Stop is called,
// whichever comes first. Start can only be called once.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("monitor already started")
	}
	if m.table.Len() == 0 {
		return fmt.Errorf("monitor table: %w", ErrEmptyTable)
	}

	m.epoch++
	subs, current, err := m.subscribeAll(ctx, m.table, m.epoch)
	if err != nil {
		return err
	}

	m.subs = subs
	m.started = true
	snap := Snapshot{table: m.table, current: current}
	m.snap.store(snap)

	capitan.Emit(ctx, MonitorStarted,
		KeyBreakpoints.Field(m.table.Len()),
		KeyBreakpoint.Field(current),
	)

	go func() {
		<-ctx.Done()
		m.Stop(context.WithoutCancel(ctx))
	}()

	return nil
}

// subscribeAll registers a subscription for every range in the table's
// partition. On partial failure it cancels the acquired subscriptions and
// returns the error. The returned current breakpoint is the widest name,
// overridden by whichever subscription already matches.
//
// Callers must hold m.mu.
func (m *Monitor) subscribeAll(ctx context.Context, table Table, epoch uint64) ([]Subscription, string, error) {
	ranges := Partition(table)
	subs := make([]Subscription, 0, len(ranges))

	for _, r := range ranges {
		name := r.Name
		sub, err := m.notifier.Subscribe(r, func(matched bool) {
			if matched {
				m.setCurrent(ctx, epoch, name)
			}
		})
		if err != nil {
			for _, s := range subs {
				s.Cancel()
			}
			return nil, "", fmt.Errorf("subscribe range %q: %w", name, err)
		}
		subs = append(subs, sub)
	}

	current := table.Widest()
	for i, sub := range subs {
		if sub.Matches() {
			current = ranges[i].Name
			break
		}
	}
	return subs, current, nil
}

// setCurrent is the notification handler. Reports from a superseded
// subscription set (earlier epoch) or a stopped monitor are ignored, so a
// callback already in flight during Reload or Stop cannot resurrect stale
// state.
func (m *Monitor) setCurrent(ctx context.Context, epoch uint64, name string) {
	m.mu.Lock()
	if m.stopped || epoch != m.epoch {
		m.mu.Unlock()
		return
	}

	old := m.snap.load()
	if old.current == name {
		m.mu.Unlock()
		return
	}

	snap := Snapshot{table: m.table, current: name}
	m.snap.store(snap)
	m.mu.Unlock()

	capitan.Emit(ctx, BreakpointChanged,
		KeyOldBreakpoint.Field(old.current),
		KeyNewBreakpoint.Field(name),
	)
	if m.metrics != nil {
		m.metrics.OnBreakpointChange(old.current, name)
	}
	m.notifyObservers(snap)
}

// Reload replaces the breakpoint table and rebuilds the subscription set.
// The old subscriptions are canceled before the new set is registered, so
// no notification tied to the old ranges can alter the current breakpoint
// afterwards. The current breakpoint is re-derived from the new ranges.
func (m *Monitor) Reload(ctx context.Context, table Table) error {
	if table.Len() == 0 {
		return fmt.Errorf("reload table: %w", ErrEmptyTable)
	}

	m.mu.Lock()
	if !m.started || m.stopped {
		m.mu.Unlock()
		return fmt.Errorf("monitor not running")
	}

	for _, s := range m.subs {
		s.Cancel()
	}
	m.subs = nil
	m.epoch++

	subs, current, err := m.subscribeAll(ctx, table, m.epoch)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	m.subs = subs
	m.table = table
	snap := Snapshot{table: table, current: current}
	m.snap.store(snap)
	m.mu.Unlock()

	capitan.Emit(ctx, TableReloaded,
		KeyBreakpoints.Field(table.Len()),
		KeyBreakpoint.Field(current),
	)
	if m.metrics != nil {
		m.metrics.OnTableApplied(table.Len())
	}
	m.notifyObservers(snap)

	return nil
}

// Stop cancels every active subscription exactly once. After Stop
// returns, no notification can reach the monitor. Stop is idempotent and
// safe to call concurrently with notifications; a monitor cannot be
// restarted.
func (m *Monitor) Stop(ctx context.Context) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.epoch++

	subs := m.subs
	m.subs = nil
	for _, s := range subs {
		s.Cancel()
	}
	m.mu.Unlock()

	capitan.Emit(ctx, MonitorStopped,
		KeyBreakpoint.Field(m.snap.load().current),
	)
	if m.onStop != nil {
		m.onStop()
	}
}

// Current returns the current breakpoint name, or "" before Start.
func (m *Monitor) Current() string {
	return m.snap.load().current
}

// Snapshot returns the current read-only snapshot. Before Start it
// returns the zero Snapshot, which responsive resolution rejects.
func (m *Monitor) Snapshot() Snapshot {
	return m.snap.load()
}

// OnChange registers an observer notified synchronously with the new
// snapshot whenever the current breakpoint or the table changes. The
// returned cancel function unregisters the observer; it is idempotent.
func (m *Monitor) OnChange(fn func(Snapshot)) (cancel func()) {
	m.obsMu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers = append(m.observers, observer{id: id, fn: fn})
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		defer m.obsMu.Unlock()
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// notifyObservers delivers a snapshot to every registered observer.
func (m *Monitor) notifyObservers(snap Snapshot) {
	m.obsMu.Lock()
	observers := make([]observer, len(m.observers))
	copy(observers, m.observers)
	m.obsMu.Unlock()

	for _, o := range observers {
		o.fn(snap)
	}
}
