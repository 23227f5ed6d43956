package strata

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key monitor and loader events.
type MetricsProvider interface {
	// OnBreakpointChange is called when the current breakpoint changes.
	OnBreakpointChange(from, to string)

	// OnTableApplied is called when a breakpoint table is applied,
	// with the number of breakpoints it contains.
	OnTableApplied(breakpoints int)

	// OnStateChange is called when a Loader transitions between states.
	OnStateChange(from, to State)

	// OnLoadSuccess is called when a table config is successfully processed.
	// Duration is the time taken to decode, validate, and apply.
	OnLoadSuccess(duration time.Duration)

	// OnLoadFailure is called when config processing fails at any stage.
	// Stage indicates where the failure occurred: "decode", "validate", or "apply".
	OnLoadFailure(stage string, duration time.Duration)

	// OnChangeReceived is called when raw data is received from the config source.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnBreakpointChange(_, _ string)          {}
func (NoOpMetricsProvider) OnTableApplied(_ int)                    {}
func (NoOpMetricsProvider) OnStateChange(_, _ State)                {}
func (NoOpMetricsProvider) OnLoadSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnLoadFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnChangeReceived()                       {}
