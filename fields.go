package strata

import "github.com/zoobzio/capitan"

// Field keys for strata events.
var (
	// KeyBreakpoint is a breakpoint name.
	KeyBreakpoint = capitan.NewStringKey("breakpoint")

	// KeyOldBreakpoint is the previous breakpoint before a change.
	KeyOldBreakpoint = capitan.NewStringKey("old_breakpoint")

	// KeyNewBreakpoint is the new breakpoint after a change.
	KeyNewBreakpoint = capitan.NewStringKey("new_breakpoint")

	// KeyBreakpoints is the number of breakpoints in a table.
	KeyBreakpoints = capitan.NewIntKey("breakpoints")

	// KeyWidth is the viewport width in cells or pixels.
	KeyWidth = capitan.NewIntKey("width")

	// KeyState is the current state of a Loader.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
