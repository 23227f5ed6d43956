package strata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for change processing.
const DefaultDebounce = 100 * time.Millisecond

// Subscription is a registered interest in a width range.
type Subscription interface {
	// Matches reports whether the range currently contains the viewport
	// width.
	Matches() bool

	// Cancel unregisters the subscription. After Cancel returns, the
	// callback will not be invoked again. Cancel is idempotent.
	Cancel()
}

// Notifier is the viewport change notification facility: it answers
// whether a width range currently holds and notifies a callback each time
// that truth value flips.
type Notifier interface {
	// Subscribe registers a callback invoked with true when the viewport
	// width enters the range and false when it leaves. The callback is
	// not invoked for the initial state; query Matches() for that.
	Subscribe(r Range, fn func(matched bool)) (Subscription, error)
}

// WidthNotifier implements Notifier on top of a Viewport width stream.
// It tracks the live width, evaluates every registered range against it,
// and fires callbacks on flips. Width bursts (drag-resizes) are debounced.
type WidthNotifier struct {
	viewport Viewport
	debounce time.Duration
	syncMode bool
	clock    clockz.Clock

	mu      sync.Mutex
	started bool
	width   int
	subs    []*widthSub

	// For sync mode: channel to receive widths
	changes <-chan int
}

// NewWidthNotifier creates a WidthNotifier over the given viewport.
// Configure with chainable methods before calling Start().
func NewWidthNotifier(viewport Viewport) *WidthNotifier {
	return &WidthNotifier{
		viewport: viewport,
		debounce: DefaultDebounce,
		clock:    clockz.RealClock,
	}
}

// Debounce sets the debounce duration for width processing. Widths
// arriving within this duration are coalesced into a single update.
// Default: 100ms. Must be called before Start().
func (n *WidthNotifier) Debounce(d time.Duration) *WidthNotifier {
	n.debounce = d
	return n
}

// SyncMode enables synchronous processing for testing. In sync mode,
// widths are processed immediately via Process() without debouncing or
// async goroutines, making tests deterministic. Must be called before
// Start().
func (n *WidthNotifier) SyncMode() *WidthNotifier {
	n.syncMode = true
	return n
}

// Clock sets a custom clock for time operations. Use this with
// clockz.FakeClock for deterministic debounce testing. Must be called
// before Start().
func (n *WidthNotifier) Clock(clock clockz.Clock) *WidthNotifier {
	n.clock = clock
	return n
}

// Width returns the most recently observed viewport width.
func (n *WidthNotifier) Width() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.width
}

// Start begins observing the viewport. It blocks until the initial width
// is known, so subscriptions registered afterwards can answer Matches()
// immediately. Start can only be called once.
func (n *WidthNotifier) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.started {
		n.mu.Unlock()
		return fmt.Errorf("width notifier already started")
	}
	n.mu.Unlock()

	changes, err := n.viewport.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch viewport: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case w, ok := <-changes:
		if !ok {
			return fmt.Errorf("viewport closed before emitting initial width")
		}
		n.mu.Lock()
		n.width = w
		n.started = true
		n.mu.Unlock()
		capitan.Emit(ctx, ViewportWidthChanged, KeyWidth.Field(w))
	}

	if n.syncMode {
		n.changes = changes
		return nil
	}

	go n.watch(ctx, changes)

	return nil
}

// Process reads and applies the next width from the viewport. This is
// only available in sync mode and is used for deterministic testing.
// Returns false if no width is available or the channel is closed.
func (n *WidthNotifier) Process(ctx context.Context) bool {
	if !n.syncMode {
		return false
	}

	select {
	case w, ok := <-n.changes:
		if !ok {
			return false
		}
		n.apply(ctx, w)
		return true
	default:
		return false
	}
}

// Subscribe registers a range callback. The notifier must be started
// first so the subscription's initial match state reflects a real width.
func (n *WidthNotifier) Subscribe(r Range, fn func(matched bool)) (Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started {
		return nil, fmt.Errorf("width notifier not started")
	}

	sub := &widthSub{
		notifier: n,
		r:        r,
		fn:       fn,
		matched:  r.Contains(n.width),
	}
	n.subs = append(n.subs, sub)
	return sub, nil
}

// apply records a new width and fires callbacks for every subscription
// whose match state flipped. Callbacks run outside the notifier lock so
// they may subscribe or cancel freely.
func (n *WidthNotifier) apply(ctx context.Context, w int) {
	n.mu.Lock()
	n.width = w

	var fire []*widthSub
	var states []bool
	for _, sub := range n.subs {
		matched := sub.r.Contains(w)
		if matched == sub.matched {
			continue
		}
		sub.matched = matched
		fire = append(fire, sub)
		states = append(states, matched)
	}
	n.mu.Unlock()

	capitan.Emit(ctx, ViewportWidthChanged, KeyWidth.Field(w))

	for i, sub := range fire {
		sub.fn(states[i])
	}
}

// watch processes widths from the viewport channel with debouncing.
func (n *WidthNotifier) watch(ctx context.Context, changes <-chan int) {
	var (
		timer      clockz.Timer
		pending    int
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

		case w, ok := <-changes:
			if !ok {
				// Channel closed, apply any pending width
				if hasPending {
					n.apply(ctx, pending)
				}
				return
			}

			pending = w
			hasPending = true

			// Reset or start debounce timer
			if timer == nil {
				timer = n.clock.NewTimer(n.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(n.debounce)
			}

		case <-timerC:
			if hasPending {
				n.apply(ctx, pending)
				hasPending = false
			}
		}
	}
}

// widthSub is a single range registration inside a WidthNotifier.
type widthSub struct {
	notifier *WidthNotifier
	r        Range
	fn       func(matched bool)
	matched  bool
	canceled bool
}

// Matches reports whether the range currently contains the viewport width.
func (s *widthSub) Matches() bool {
	s.notifier.mu.Lock()
	defer s.notifier.mu.Unlock()
	return s.matched
}

// Cancel removes the subscription from the notifier.
func (s *widthSub) Cancel() {
	s.notifier.mu.Lock()
	defer s.notifier.mu.Unlock()

	if s.canceled {
		return
	}
	s.canceled = true

	for i, sub := range s.notifier.subs {
		if sub == s {
			s.notifier.subs = append(s.notifier.subs[:i], s.notifier.subs[i+1:]...)
			break
		}
	}
}
