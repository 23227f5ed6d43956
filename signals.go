package strata

import "github.com/zoobzio/capitan"

// Monitor lifecycle signals.
var (
	// MonitorStarted is emitted when a Monitor has registered its
	// subscription set and established the initial breakpoint.
	MonitorStarted = capitan.NewSignal(
		"strata.monitor.started",
		"Breakpoint monitoring started",
	)

	// MonitorStopped is emitted when a Monitor has canceled its
	// subscription set.
	MonitorStopped = capitan.NewSignal(
		"strata.monitor.stopped",
		"Breakpoint monitoring stopped",
	)

	// BreakpointChanged is emitted when the current breakpoint changes.
	BreakpointChanged = capitan.NewSignal(
		"strata.monitor.breakpoint.changed",
		"Current breakpoint changed",
	)

	// TableReloaded is emitted when a Monitor rebuilds its subscription
	// set for a new breakpoint table.
	TableReloaded = capitan.NewSignal(
		"strata.monitor.table.reloaded",
		"Breakpoint table reloaded",
	)
)

// Viewport signals.
var (
	// ViewportWidthChanged is emitted when a new viewport width is
	// applied by a WidthNotifier.
	ViewportWidthChanged = capitan.NewSignal(
		"strata.viewport.width.changed",
		"Viewport width changed",
	)
)

// Table loader signals.
var (
	// LoaderStarted is emitted when a Loader begins watching its source.
	LoaderStarted = capitan.NewSignal(
		"strata.loader.started",
		"Table loader watching started",
	)

	// LoaderStopped is emitted when a Loader stops watching.
	LoaderStopped = capitan.NewSignal(
		"strata.loader.stopped",
		"Table loader watching stopped",
	)

	// LoaderStateChanged is emitted when a Loader transitions between states.
	LoaderStateChanged = capitan.NewSignal(
		"strata.loader.state.changed",
		"Table loader state transition",
	)

	// LoaderChangeReceived is emitted when raw data is received from the
	// config source.
	LoaderChangeReceived = capitan.NewSignal(
		"strata.loader.change.received",
		"Raw change received from config source",
	)

	// LoaderDecodeFailed is emitted when config bytes fail to decode.
	LoaderDecodeFailed = capitan.NewSignal(
		"strata.loader.decode.failed",
		"Table config decode failed",
	)

	// LoaderValidationFailed is emitted when a decoded config fails
	// validation or table construction.
	LoaderValidationFailed = capitan.NewSignal(
		"strata.loader.validation.failed",
		"Table config validation failed",
	)

	// LoaderApplyFailed is emitted when the monitor rejects a reload.
	LoaderApplyFailed = capitan.NewSignal(
		"strata.loader.apply.failed",
		"Table reload failed",
	)

	// LoaderApplySucceeded is emitted when a table is successfully applied.
	LoaderApplySucceeded = capitan.NewSignal(
		"strata.loader.apply.succeeded",
		"Table applied successfully",
	)
)
