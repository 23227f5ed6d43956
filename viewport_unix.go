//go:build unix

package strata

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// TerminalViewport emits the terminal column count for a tty file
// descriptor, re-reading it on every SIGWINCH. It is the standard host
// viewport for terminal UIs.
type TerminalViewport struct {
	fd int
}

// NewTerminalViewport creates a TerminalViewport for the given file
// descriptor, typically that of os.Stdout.
func NewTerminalViewport(fd int) *TerminalViewport {
	return &TerminalViewport{fd: fd}
}

// Watch emits the current terminal width immediately, then a new width
// after each resize signal. Resizes that leave the width unchanged
// (height-only resizes) are not emitted.
func (v *TerminalViewport) Watch(ctx context.Context) (<-chan int, error) {
	width, _, err := term.GetSize(v.fd)
	if err != nil {
		return nil, fmt.Errorf("read terminal size: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	out := make(chan int)
	go func() {
		defer close(out)
		defer signal.Stop(sigCh)

		select {
		case out <- width:
		case <-ctx.Done():
			return
		}

		last := width
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
				w, _, err := term.GetSize(v.fd)
				if err != nil || w <= 0 || w == last {
					continue
				}
				last = w
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
