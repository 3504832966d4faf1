package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunWaitsForAll(t *testing.T) {
	p := NewPool(2)
	defer p.Stop()

	var n atomic.Int32
	fns := make([]func(), 10)
	for i := range fns {
		fns[i] = func() { n.Add(1) }
	}
	p.Run(fns...)
	if got := n.Load(); got != 10 {
		t.Fatalf("ran %d jobs, want 10", got)
	}
}

func TestStopDrainsQueue(t *testing.T) {
	p := NewPool(1)
	var n atomic.Int32
	for i := 0; i < 5; i++ {
		p.Submit(func() { n.Add(1) })
	}
	p.Stop()
	if got := n.Load(); got != 5 {
		t.Fatalf("ran %d jobs before stop, want 5", got)
	}
}

func TestShutdownGivesUpOnStuckJob(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})
	defer close(release)
	p.Submit(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown() = %v, want deadline exceeded", err)
	}
}

func TestShutdownDrains(t *testing.T) {
	p := NewPool(2)
	var n atomic.Int32
	for i := 0; i < 4; i++ {
		p.Submit(func() { n.Add(1) })
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if got := n.Load(); got != 4 {
		t.Fatalf("ran %d jobs, want 4", got)
	}
}
