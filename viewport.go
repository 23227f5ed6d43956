package strata

import "context"

// Viewport observes a host for viewport width changes and emits widths on
// a channel. Implementations must emit the current width immediately upon
// Watch() being called so subscribers can answer "does this range hold
// right now" before any change arrives.
type Viewport interface {
	// Watch begins observing the host and returns a channel that emits
	// the viewport width whenever it changes. The channel is closed when
	// the context is canceled or an unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan int, error)
}

// ChannelViewport wraps an existing width channel as a Viewport.
// Useful for testing and custom hosts that already produce widths.
type ChannelViewport struct {
	ch   <-chan int
	sync bool
}

// NewChannelViewport creates a ChannelViewport that forwards widths from
// the given channel through an internal goroutine.
func NewChannelViewport(ch <-chan int) *ChannelViewport {
	return &ChannelViewport{ch: ch}
}

// NewSyncChannelViewport creates a ChannelViewport that returns the source
// channel directly without an intermediate goroutine.
// Use with SyncMode() for deterministic testing.
func NewSyncChannelViewport(ch <-chan int) *ChannelViewport {
	return &ChannelViewport{ch: ch, sync: true}
}

// Watch returns a channel that emits widths from the wrapped channel.
func (v *ChannelViewport) Watch(ctx context.Context) (<-chan int, error) {
	if v.sync {
		return v.ch, nil
	}

	out := make(chan int)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case w, ok := <-v.ch:
				if !ok {
					return
				}
				select {
				case out <- w:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
