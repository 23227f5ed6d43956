package strata

import (
	"context"
	"testing"
	"time"
)

func TestChannelViewport_ForwardsWidths(t *testing.T) {
	source := make(chan int, 3)
	source <- 80
	source <- 120
	source <- 60

	viewport := NewChannelViewport(source)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := viewport.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	expected := []int{80, 120, 60}
	for i, exp := range expected {
		select {
		case w := <-out:
			if w != exp {
				t.Errorf("expected %d, got %d", exp, w)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for width %d", i)
		}
	}
}

func TestChannelViewport_ClosesOnSourceClose(t *testing.T) {
	source := make(chan int, 1)
	source <- 80
	close(source)

	viewport := NewChannelViewport(source)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := viewport.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	<-out

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestChannelViewport_ClosesOnContextCancel(t *testing.T) {
	source := make(chan int) // unbuffered, will block

	viewport := NewChannelViewport(source)

	ctx, cancel := context.WithCancel(context.Background())

	out, err := viewport.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for channel close")
	}
}

func TestSyncChannelViewport_ReturnsSourceDirectly(t *testing.T) {
	source := make(chan int, 1)
	source <- 42

	viewport := NewSyncChannelViewport(source)
	out, err := viewport.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if w := <-out; w != 42 {
		t.Errorf("expected 42, got %d", w)
	}
}

func TestChannelWatcher_ForwardsBytes(t *testing.T) {
	source := make(chan []byte, 2)
	source <- []byte("one")
	source <- []byte("two")

	watcher := NewChannelWatcher(source)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	for _, exp := range []string{"one", "two"} {
		select {
		case v := <-out:
			if string(v) != exp {
				t.Errorf("expected %s, got %s", exp, string(v))
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for value")
		}
	}
}
