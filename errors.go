package strata

import "errors"

// Configuration errors. All are fatal to the calling operation: a
// misconfigured table fails at construction time rather than producing
// silently wrong ranges, and resolution without an established snapshot
// fails rather than guessing.
var (
	// ErrEmptyTable is returned when a breakpoint table has no entries.
	ErrEmptyTable = errors.New("breakpoint table has no entries")

	// ErrDuplicateThreshold is returned when two breakpoints share a
	// threshold. Duplicate thresholds would produce a zero-width range.
	ErrDuplicateThreshold = errors.New("duplicate breakpoint threshold")

	// ErrNegativeThreshold is returned when a threshold is below zero.
	// The width axis is non-negative.
	ErrNegativeThreshold = errors.New("negative breakpoint threshold")

	// ErrNoSnapshot is returned when a responsive value is resolved
	// without a valid breakpoint snapshot.
	ErrNoSnapshot = errors.New("no breakpoint snapshot available")
)
