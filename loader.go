package strata

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Loader watches a config source for breakpoint table changes, decodes
// and validates the data, and applies it to a Monitor with automatic
// rollback on failure: if a change fails at any stage, the previous valid
// table keeps driving the monitor.
//
// The pipeline per change is:
//
//	Source → Decode → Validate → Build Table → Monitor.Reload
//
// The monitor must be started before the loader.
type Loader struct {
	watcher        Watcher
	monitor        *Monitor
	codec          Codec
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	metrics        MetricsProvider
	onStop         func(State)

	state     atomic.Int32
	current   atomic.Pointer[Table]
	lastError atomic.Pointer[error]
	history   *errorRing

	mu      sync.Mutex
	started bool

	// For sync mode: channel to receive changes
	changes <-chan []byte
}

// NewLoader creates a Loader that feeds the given monitor from a config
// source. The default codec is YAML (which also accepts JSON). Configure
// with chainable methods before calling Start().
func NewLoader(watcher Watcher, monitor *Monitor) *Loader {
	l := &Loader{
		watcher:  watcher,
		monitor:  monitor,
		codec:    YAMLCodec{},
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
	}
	l.state.Store(int32(StateLoading))
	return l
}

// Codec sets the codec for deserializing table config data.
// Default: YAMLCodec. Must be called before Start().
func (l *Loader) Codec(codec Codec) *Loader {
	l.codec = codec
	return l
}

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced into a single update.
// Default: 100ms. Must be called before Start().
func (l *Loader) Debounce(d time.Duration) *Loader {
	l.debounce = d
	return l
}

// SyncMode enables synchronous processing for testing.
// In sync mode, changes are processed immediately without debouncing
// or async goroutines, making tests deterministic. Must be called before Start().
func (l *Loader) SyncMode() *Loader {
	l.syncMode = true
	return l
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (l *Loader) Clock(clock clockz.Clock) *Loader {
	l.clock = clock
	return l
}

// StartupTimeout sets the maximum duration to wait for the initial config
// value from the watcher. If the watcher fails to emit within this
// duration, Start() returns an error.
// Default: no timeout (wait indefinitely). Must be called before Start().
func (l *Loader) StartupTimeout(d time.Duration) *Loader {
	l.startupTimeout = d
	return l
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (l *Loader) Metrics(provider MetricsProvider) *Loader {
	l.metrics = provider
	return l
}

// OnStop sets a callback invoked when the loader stops watching, with the
// final state. Must be called before Start().
func (l *Loader) OnStop(fn func(State)) *Loader {
	l.onStop = fn
	return l
}

// ErrorHistorySize sets the number of recent load failures to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (l *Loader) ErrorHistorySize(n int) *Loader {
	l.history = newErrorRing(n)
	return l
}

// State returns the current state of the Loader.
func (l *Loader) State() State {
	return State(l.state.Load())
}

// CurrentTable returns the last successfully applied table and true, or
// the zero Table and false if no valid table has been applied.
func (l *Loader) CurrentTable() (Table, bool) {
	ptr := l.current.Load()
	if ptr == nil {
		return Table{}, false
	}
	return *ptr, true
}

// LastError returns the last error encountered, or nil.
func (l *Loader) LastError() error {
	ptr := l.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent load failures, oldest first. Returns nil if
// error history is not enabled (see ErrorHistorySize).
func (l *Loader) ErrorHistory() []ErrorRecord {
	return l.history.all()
}

// Start begins watching for table changes. It blocks until the first
// config is processed (success or failure), then continues watching
// asynchronously.
//
// If the initial config fails, Start returns the error but continues
// watching in the background for valid updates.
//
// In sync mode, Start only processes the initial value. Use Process() to
// manually trigger processing of subsequent values.
//
// Start can only be called once. Subsequent calls return an error.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("loader already started")
	}
	l.started = true
	l.mu.Unlock()

	capitan.Emit(ctx, LoaderStarted,
		KeyDebounce.Field(l.debounce),
	)

	changes, err := l.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	// Wait for first value and process synchronously
	var initialErr error

	startupCtx := ctx
	if l.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = l.clock.WithTimeout(ctx, l.startupTimeout)
		defer cancel()
	}

	select {
	case <-startupCtx.Done():
		if l.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: watcher did not emit initial value within %v", l.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return fmt.Errorf("watcher closed before emitting initial value")
		}
		capitan.Emit(ctx, LoaderChangeReceived)
		if l.metrics != nil {
			l.metrics.OnChangeReceived()
		}
		initialErr = l.process(ctx, raw)
	}

	if l.syncMode {
		// In sync mode, store channel for manual processing
		l.changes = changes
		return initialErr
	}

	// Continue watching asynchronously
	go l.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next value from the watcher.
// This is only available in sync mode and is used for deterministic testing.
// Returns false if no value is available or the channel is closed.
func (l *Loader) Process(ctx context.Context) bool {
	if !l.syncMode {
		return false
	}

	select {
	case raw, ok := <-l.changes:
		if !ok {
			return false
		}
		capitan.Emit(ctx, LoaderChangeReceived)
		if l.metrics != nil {
			l.metrics.OnChangeReceived()
		}
		_ = l.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

// process decodes, validates, builds, and applies a single table update.
func (l *Loader) process(ctx context.Context, raw []byte) error {
	start := l.clock.Now()
	oldState := l.State()

	var cfg TableConfig
	if err := l.codec.Unmarshal(raw, &cfg); err != nil {
		l.setError(err)
		l.transitionState(ctx, oldState, l.failureState())
		capitan.Emit(ctx, LoaderDecodeFailed,
			KeyError.Field(err.Error()),
		)
		if l.metrics != nil {
			l.metrics.OnLoadFailure("decode", l.clock.Since(start))
		}
		return fmt.Errorf("decode failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		l.setError(err)
		l.transitionState(ctx, oldState, l.failureState())
		capitan.Emit(ctx, LoaderValidationFailed,
			KeyError.Field(err.Error()),
		)
		if l.metrics != nil {
			l.metrics.OnLoadFailure("validate", l.clock.Since(start))
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	table, err := cfg.Table()
	if err != nil {
		l.setError(err)
		l.transitionState(ctx, oldState, l.failureState())
		capitan.Emit(ctx, LoaderValidationFailed,
			KeyError.Field(err.Error()),
		)
		if l.metrics != nil {
			l.metrics.OnLoadFailure("validate", l.clock.Since(start))
		}
		return fmt.Errorf("table construction failed: %w", err)
	}

	if err := l.monitor.Reload(ctx, table); err != nil {
		l.setError(err)
		l.transitionState(ctx, oldState, l.failureState())
		capitan.Emit(ctx, LoaderApplyFailed,
			KeyError.Field(err.Error()),
		)
		if l.metrics != nil {
			l.metrics.OnLoadFailure("apply", l.clock.Since(start))
		}
		return fmt.Errorf("apply failed: %w", err)
	}

	// Success - store table and clear error history
	l.current.Store(&table)
	l.lastError.Store(nil)
	l.history.clear()
	l.transitionState(ctx, oldState, StateHealthy)
	capitan.Emit(ctx, LoaderApplySucceeded,
		KeyBreakpoints.Field(table.Len()),
	)
	if l.metrics != nil {
		l.metrics.OnLoadSuccess(l.clock.Since(start))
	}

	return nil
}

// failureState returns the appropriate failure state based on whether a
// valid table has ever been applied.
func (l *Loader) failureState() State {
	if l.current.Load() == nil {
		return StateEmpty
	}
	return StateDegraded
}

// transitionState updates the state and emits a state change event if changed.
func (l *Loader) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	l.state.Store(int32(newState))
	capitan.Emit(ctx, LoaderStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if l.metrics != nil {
		l.metrics.OnStateChange(oldState, newState)
	}
}

// setError stores an error atomically and adds it to the error history.
func (l *Loader) setError(err error) {
	e := err
	l.lastError.Store(&e)
	l.history.push(l.clock.Now(), err)
}

// watch processes changes from the watcher channel with debouncing.
func (l *Loader) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		finalState := l.State()
		capitan.Emit(ctx, LoaderStopped,
			KeyState.Field(finalState.String()),
		)
		if l.onStop != nil {
			l.onStop(finalState)
		}
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)

	for {
		// Get timer channel or nil if no timer
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				// Channel closed, process any pending change
				if hasPending {
					_ = l.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				}
				return
			}

			capitan.Emit(ctx, LoaderChangeReceived)
			if l.metrics != nil {
				l.metrics.OnChangeReceived()
			}
			pending = raw
			hasPending = true

			// Reset or start debounce timer
			if timer == nil {
				timer = l.clock.NewTimer(l.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(l.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = l.process(ctx, pending) //nolint:errcheck // Errors stored via setError
				hasPending = false
			}
		}
	}
}
