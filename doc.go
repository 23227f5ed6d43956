// Package strata provides responsive breakpoint tracking and per-breakpoint
// value resolution for width-driven interfaces.
//
// The core types are Table, Monitor, and Value. A Table partitions the
// viewport width axis into named, non-overlapping ranges. A Monitor
// subscribes to width change notifications and keeps the "current
// breakpoint" up to date. A Value is a scalar that may carry
// per-breakpoint overrides and resolves to a single scalar against the
// monitor's current snapshot.
//
// # Tables and ranges
//
// A breakpoint's threshold is the inclusive upper bound of its width
// range; the narrowest breakpoint starts at zero and the widest extends
// to infinity:
//
//	table := strata.MustTable(map[string]int{
//	    "narrow": 80,
//	    "medium": 100,
//	    "wide":   140,
//	})
//
// This yields narrow = [0,80], medium = [81,100], wide = [101,∞). The
// ranges are pairwise disjoint and cover the whole axis, so exactly one
// breakpoint is current at any width.
//
// # Monitoring
//
// A Monitor consumes a Notifier, the facility that answers "does this
// range currently hold" and reports flips. WidthNotifier adapts any
// Viewport width stream into that facility:
//
//	notifier := strata.NewWidthNotifier(strata.NewTerminalViewport(int(os.Stdout.Fd())))
//	if err := notifier.Start(ctx); err != nil {
//	    return err
//	}
//
//	monitor := strata.NewMonitor(table, notifier)
//	if err := monitor.Start(ctx); err != nil {
//	    return err
//	}
//
//	cancel := monitor.OnChange(func(snap strata.Snapshot) {
//	    render(snap)
//	})
//	defer cancel()
//
// # Responsive values
//
// Values resolve with a mobile-first cascade: an override at breakpoint X
// applies to X and every narrower breakpoint without a more specific
// override. Overrides only for wider breakpoints never apply.
//
//	columns := strata.Responsive(1, map[string]int{
//	    "medium": 2,
//	    "wide":   3,
//	})
//
//	n, err := columns.Resolve(monitor.Snapshot())
//
// At "narrow" this resolves to 1 (the default), at "medium" to 2, and at
// "wide" to 3. Scalars pass through untouched:
//
//	gap := strata.Scalar(2)
//
// # Hot-reloading tables
//
// A Loader watches a config source, decodes and validates a TableConfig,
// and swaps the monitor's subscription set atomically. Invalid configs
// roll back: the previous table keeps driving the monitor while the
// loader reports a degraded state.
//
//	loader := strata.NewLoader(strata.NewFileWatcher("breakpoints.yaml"), monitor)
//	if err := loader.Start(ctx); err != nil {
//	    log.Printf("initial table config rejected: %v", err)
//	}
//
// # Observability
//
// Lifecycle and pipeline events are emitted as capitan signals
// (MonitorStarted, BreakpointChanged, LoaderStateChanged, ...). Hook them
// for logging or audit:
//
//	capitan.Hook(strata.BreakpointChanged, func(_ context.Context, e *capitan.Event) {
//	    // ...
//	})
package strata
